package storehouse

import "fmt"

// Contract violations are raised as panics carrying one of the error values
// below. Registration problems that a caller can recover from are returned.

type InvalidLayoutError struct {
	Layout Layout
	Reason string
}

func (e InvalidLayoutError) Error() string {
	return fmt.Sprintf("invalid layout (size %d, align %d): %s", e.Layout.Size, e.Layout.Align, e.Reason)
}

type CapacityOverflowError struct {
	Layout   Layout
	Capacity int
}

func (e CapacityOverflowError) Error() string {
	return fmt.Sprintf("capacity %d overflows for element size %d", e.Capacity, e.Layout.Size)
}

type RowOutOfBoundsError struct {
	Row int
	Len int
}

func (e RowOutOfBoundsError) Error() string {
	return fmt.Sprintf("row %d out of bounds (len %d)", e.Row, e.Len)
}

type ColumnMismatchError struct {
	Table    TableID
	Expected int
	Got      int
}

func (e ColumnMismatchError) Error() string {
	return fmt.Sprintf("table %d expects values for %d columns, got a mismatched set of %d", e.Table, e.Expected, e.Got)
}

type InvalidTableError struct {
	Table TableID
}

func (e InvalidTableError) Error() string {
	return fmt.Sprintf("table %d does not exist", e.Table)
}

type InvalidSubStorageError struct {
	SubStorage SubStorageID
}

func (e InvalidSubStorageError) Error() string {
	return fmt.Sprintf("sub-storage %d does not exist", e.SubStorage)
}

type AliasedPairError struct {
	Kind string
	A, B int
}

func (e AliasedPairError) Error() string {
	return fmt.Sprintf("%s pair (%d, %d) aliases one element", e.Kind, e.A, e.B)
}

type UnknownComponentError struct {
	Component ComponentID
}

func (e UnknownComponentError) Error() string {
	return fmt.Sprintf("component %d is not registered", e.Component)
}

type DuplicateComponentError struct {
	Component ComponentID
}

func (e DuplicateComponentError) Error() string {
	return fmt.Sprintf("component %d appears more than once in bundle", e.Component)
}

type UnknownBundleError struct {
	Bundle BundleID
}

func (e UnknownBundleError) Error() string {
	return fmt.Sprintf("bundle %d is not registered", e.Bundle)
}

type PointerComponentError struct {
	Type string
}

func (e PointerComponentError) Error() string {
	return fmt.Sprintf("component type %s contains Go pointers and cannot be stored as raw bytes", e.Type)
}

type NilResourceError struct {
	Resource ComponentID
}

func (e NilResourceError) Error() string {
	return fmt.Sprintf("cannot insert nil value for resource %d", e.Resource)
}

type TooManyComponentsError struct {
	Name string
	Max  int
}

func (e TooManyComponentsError) Error() string {
	return fmt.Sprintf("cannot register table component %q: at most %d table-stored kinds are supported", e.Name, e.Max)
}

type StorageTypeMismatchError struct {
	Component ComponentID
	Want      StorageType
}

func (e StorageTypeMismatchError) Error() string {
	return fmt.Sprintf("component %d is not a %s-stored kind", e.Component, e.Want)
}
