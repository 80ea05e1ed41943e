// Package match scores library candidates against canonical tracks using
// token-set fuzzy comparison and picks the best candidate above a
// configurable threshold.
package match
