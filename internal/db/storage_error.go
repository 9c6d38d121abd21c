package db

import "fmt"

// StorageError marks an infrastructure fault coming out of a repository,
// as opposed to a business-rule denial. A failed capacity insert caused by
// a dropped connection must never read as "class is full".
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure in %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// WrapStorage annotates err as a storage fault. Returns nil on nil.
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
