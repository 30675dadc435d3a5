// Package gorm provides GORM-based implementations of the store interfaces
// defined in the parent store package.
//
// Writes that must stay consistent across tables (user deletion with
// ownership transfer, findings and the design reviews that follow them)
// run inside a single db.Transaction.
package gorm
