// Package model defines the records linkscout produces: one Discovery per
// seed and the Diff between two discoveries of the same seed.
package model
