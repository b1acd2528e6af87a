// Package errors provides custom error types for catalog operations.
package errors

import "errors"

var ErrCategoryNotFound = errors.New("category not found")
var ErrParentCategoryNotFound = errors.New("parent category not found")
var ErrCategoriesNotFound = errors.New("one or more categories not found")

var ErrProductNotFound = errors.New("product not found")
var ErrVariantNotFound = errors.New("product variant not found")
var ErrListingNotFound = errors.New("product channel listing not found")

var ErrOrderMissingForLine = errors.New("order line references an unknown order")

var ErrTransactionBegin = errors.New("failed to begin transaction")
var ErrTransactionCommit = errors.New("failed to commit transaction")
var ErrTransactionRollback = errors.New("failed to rollback transaction")
