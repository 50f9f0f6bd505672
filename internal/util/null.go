package util

import "database/sql"

// ToNull wraps an optional value for a nullable column.
func ToNull[T any](p *T) sql.Null[T] {
	if p == nil {
		return sql.Null[T]{}
	}
	return sql.Null[T]{V: *p, Valid: true}
}

// FromNull is the inverse of ToNull: NULL becomes nil.
func FromNull[T any](n sql.Null[T]) *T {
	if !n.Valid {
		return nil
	}
	v := n.V
	return &v
}
