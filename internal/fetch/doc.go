// Package fetch downloads urls with the stored cookie session of their
// domain. Extensions turn urls into targets, a Destination decides where
// and whether files are written, and the Fetcher runs the downloads with a
// bounded number of workers.
package fetch
