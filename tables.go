package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

var ErrUnknownTable = errors.New("unknown table")

type TableName string

const (
	TableLineItem TableName = "lineitem"
	TableOrders   TableName = "orders"
	TableCustomer TableName = "customer"
	TableRegion   TableName = "region"
	TableNation   TableName = "nation"
	TableSupplier TableName = "supplier"
	TablePart     TableName = "part"
	TablePartSupp TableName = "partsupp"
)

var AllTables = []TableName{
	TableLineItem,
	TableOrders,
	TableCustomer,
	TableRegion,
	TableNation,
	TableSupplier,
	TablePart,
	TablePartSupp,
}

// TableLoader reads a table by name. *Reader is the production implementation.
type TableLoader interface {
	Read(ctx context.Context, name TableName) (arrow.Table, error)
}

// Tables memoizes every TPC-H table once per instance. Loaded tables are owned by
// Tables: callers must not release them and should Retain what outlives Release.
type Tables struct {
	slots map[TableName]*Lazy[arrow.Table]
}

func NewTables(loader TableLoader) *Tables {
	slots := make(map[TableName]*Lazy[arrow.Table], len(AllTables))
	for _, name := range AllTables {
		slots[name] = NewLazy(func(ctx context.Context) (arrow.Table, error) {
			return loader.Read(ctx, name)
		})
	}
	return &Tables{slots: slots}
}

func (t *Tables) Get(ctx context.Context, name TableName) (arrow.Table, error) {
	slot, ok := t.slots[name]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownTable, name)
	}
	return slot.Get(ctx)
}

func (t *Tables) LineItem(ctx context.Context) (arrow.Table, error) {
	return t.Get(ctx, TableLineItem)
}

func (t *Tables) Orders(ctx context.Context) (arrow.Table, error) {
	return t.Get(ctx, TableOrders)
}

func (t *Tables) Customer(ctx context.Context) (arrow.Table, error) {
	return t.Get(ctx, TableCustomer)
}

func (t *Tables) Region(ctx context.Context) (arrow.Table, error) {
	return t.Get(ctx, TableRegion)
}

func (t *Tables) Nation(ctx context.Context) (arrow.Table, error) {
	return t.Get(ctx, TableNation)
}

func (t *Tables) Supplier(ctx context.Context) (arrow.Table, error) {
	return t.Get(ctx, TableSupplier)
}

func (t *Tables) Part(ctx context.Context) (arrow.Table, error) {
	return t.Get(ctx, TablePart)
}

func (t *Tables) PartSupp(ctx context.Context) (arrow.Table, error) {
	return t.Get(ctx, TablePartSupp)
}

// Loaded reports whether the table is already in memory.
func (t *Tables) Loaded(name TableName) bool {
	slot, ok := t.slots[name]
	if !ok {
		return false
	}
	_, done := slot.Peek()
	return done
}

// Preload reads every table not loaded yet, stopping at the first failure.
func (t *Tables) Preload(ctx context.Context) error {
	for _, name := range AllTables {
		if _, err := t.Get(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tables) Release() {
	for _, name := range AllTables {
		if table, ok := t.slots[name].Reset(); ok {
			table.Release()
		}
	}
}
