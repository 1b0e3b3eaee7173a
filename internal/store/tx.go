package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Tx is a transaction handle restricted to the collections it was opened
// with. It carries the context the transaction was started under, like the
// sql.Tx it wraps, and must not be used after the work function returns.
type Tx struct {
	ctx      context.Context
	tx       *sqlx.Tx
	scope    map[string]bool
	readOnly bool
}

// use checks that c was declared for this transaction and, for writes, that
// the transaction is writable.
func (tx *Tx) use(c *Collection, write bool) error {
	if !tx.scope[c.Name] {
		return invalid("collection %s is not part of this transaction", c.Name)
	}
	if write && tx.readOnly {
		return invalid("write to %s inside a read transaction", c.Name)
	}
	return nil
}

// Put inserts rec when its key is zero, assigning a fresh key, or upserts
// it by primary key otherwise. It returns the record's key.
func (tx *Tx) Put(c *Collection, rec Record) (int64, error) {
	if err := tx.use(c, true); err != nil {
		return 0, err
	}
	if c.insertSQL == "" {
		return 0, invalid("collection %s does not hold records", c.Name)
	}

	id := rec.Key()
	if id < 0 {
		return 0, invalid("negative %s id %d", c.Name, id)
	}

	query := c.upsertSQL
	if id == 0 {
		query = c.insertSQL
	}

	result, err := tx.tx.NamedExecContext(tx.ctx, query, rec)
	if err != nil {
		return 0, fmt.Errorf("putting %s %d: %w", c.Name, id, classify(err))
	}

	if id == 0 {
		id, err = result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("reading new %s id: %w", c.Name, classify(err))
		}
	}
	return id, nil
}

// Delete removes the record with the given key. Deleting an absent record
// is not an error.
func (tx *Tx) Delete(c *Collection, id int64) error {
	if err := tx.use(c, true); err != nil {
		return err
	}
	if id <= 0 {
		return invalid("%s id must be positive, got %d", c.Name, id)
	}

	if _, err := tx.tx.ExecContext(tx.ctx, "DELETE FROM "+c.Name+" WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting %s %d: %w", c.Name, id, classify(err))
	}
	return nil
}

// Count returns the number of records whose indexed column equals key.
func (tx *Tx) Count(c *Collection, index string, key any) (int, error) {
	if err := tx.use(c, false); err != nil {
		return 0, err
	}
	idx, err := c.index(index)
	if err != nil {
		return 0, err
	}

	where, args := indexCondition(idx, key)
	var n int
	if err := tx.tx.GetContext(tx.ctx, &n, "SELECT COUNT(*) FROM "+c.Name+" WHERE "+where, args...); err != nil {
		return 0, fmt.Errorf("counting %s by %s: %w", c.Name, index, classify(err))
	}
	return n, nil
}

// Get loads the record of collection c with the given key.
func Get[T any](tx *Tx, c *Collection, id int64) (*T, error) {
	if err := tx.use(c, false); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, invalid("%s id must be positive, got %d", c.Name, id)
	}

	var rec T
	if err := tx.tx.GetContext(tx.ctx, &rec, c.selectSQL+" WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("getting %s %d: %w", c.Name, id, classify(err))
	}
	return &rec, nil
}

// GetByIndex loads the single record whose unique indexed column equals key.
func GetByIndex[T any](tx *Tx, c *Collection, index string, key any) (*T, error) {
	if err := tx.use(c, false); err != nil {
		return nil, err
	}
	idx, err := c.index(index)
	if err != nil {
		return nil, err
	}
	if !idx.Unique {
		return nil, invalid("index %s.%s is not unique; scan it instead", c.Name, index)
	}

	where, args := indexCondition(idx, key)
	var rec T
	if err := tx.tx.GetContext(tx.ctx, &rec, c.selectSQL+" WHERE "+where, args...); err != nil {
		return nil, fmt.Errorf("getting %s by %s: %w", c.Name, index, classify(err))
	}
	return &rec, nil
}

// ScanByIndex returns every record whose indexed column equals key, ordered
// by key. A nil key matches records where the column is NULL. The result is
// never nil.
func ScanByIndex[T any](tx *Tx, c *Collection, index string, key any) ([]T, error) {
	if err := tx.use(c, false); err != nil {
		return nil, err
	}
	idx, err := c.index(index)
	if err != nil {
		return nil, err
	}

	where, args := indexCondition(idx, key)
	recs := []T{}
	if err := tx.tx.SelectContext(tx.ctx, &recs, c.selectSQL+" WHERE "+where+" ORDER BY id", args...); err != nil {
		return nil, fmt.Errorf("scanning %s by %s: %w", c.Name, index, classify(err))
	}
	return recs, nil
}

// indexCondition renders the WHERE clause selecting key from idx.
func indexCondition(idx Index, key any) (string, []any) {
	if key == nil {
		return idx.Column + " IS NULL", nil
	}
	return idx.Column + " = ?", []any{key}
}
