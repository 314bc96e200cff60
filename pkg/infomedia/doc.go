// Package infomedia is a client for the Infomedia article API: password-grant
// authentication, paginated id search and bulk article fetch.
package infomedia
