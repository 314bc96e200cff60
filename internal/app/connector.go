package app

import (
	"fmt"

	"github.com/Adda-Baaj/infomedia-harvester/internal/config"
	"github.com/Adda-Baaj/infomedia-harvester/internal/logger"
	"github.com/Adda-Baaj/infomedia-harvester/pkg/httpclient"
	"github.com/Adda-Baaj/infomedia-harvester/pkg/infomedia"
)

// NewConnector builds an Infomedia connector from the loaded configuration.
func NewConnector(cfg *config.Config, log logger.Logger) (*infomedia.Connector, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if err := cfg.RequireInfomedia(); err != nil {
		return nil, err
	}

	policy := httpclient.DefaultRetryPolicy()
	policy.MaxRetries = cfg.InfomediaRetryCount
	policy.Delay = cfg.InfomediaRetryDelay

	conn, err := infomedia.New(infomedia.Config{
		BaseURL:        cfg.InfomediaURL,
		Username:       cfg.InfomediaUsername,
		Password:       cfg.InfomediaPassword,
		PageSize:       cfg.InfomediaPageSize,
		TokenEncoding:  infomedia.TokenEncoding(cfg.InfomediaTokenEncoding),
		TimingLogLevel: cfg.InfomediaTimingLogLevel,
		Timeout:        cfg.InfomediaTimeout,
		Retry:          &policy,
	}, infomedia.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("init infomedia connector: %w", err)
	}
	return conn, nil
}
