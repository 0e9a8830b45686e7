// Package portfolio is a thin client for the portfolio API. It uploads
// prepared media as multipart forms with bearer-token auth and surfaces auth
// expiry as a typed error.
package portfolio
