// Package restaurant defines the restaurant record served by the directory
// SDK together with the error values shared by the store, remote, and
// directory packages. Only the id and the two facet fields (cuisine type and
// neighborhood) carry meaning for the SDK; the remaining fields are display
// data passed through untouched.
package restaurant
