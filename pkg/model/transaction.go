package model

import (
	"errors"
	"fmt"

	"github.com/chazu/insulator/pkg/kernel"
)

// ErrTransactionClosed is returned when a committed or rolled back
// transaction is used again.
var ErrTransactionClosed = errors.New("transaction closed")

// Transaction stages new elements until Commit. Ids are derived from the
// transaction name, its sequence number in the document and the staging
// order, so identical runs produce identical ids.
type Transaction struct {
	doc    *Document
	name   string
	seq    int
	staged []Element
	closed bool
}

// Begin opens a transaction on d.
func (d *Document) Begin(name string) *Transaction {
	d.transactions++
	return &Transaction{doc: d, name: name, seq: d.transactions}
}

// Name returns the transaction name.
func (tx *Transaction) Name() string { return tx.name }

// Staged returns the number of staged elements.
func (tx *Transaction) Staged() int { return len(tx.staged) }

func (tx *Transaction) nextID(kind string) ElementID {
	return NewElementID(fmt.Sprintf("%s#%d/%s/%d", tx.name, tx.seq, kind, len(tx.staged)))
}

// CreateDetailCurve stages a detail curve carrying c.
func (tx *Transaction) CreateDetailCurve(c kernel.Curve) (ElementID, error) {
	if tx.closed {
		return "", fmt.Errorf("model: create detail curve: %w", ErrTransactionClosed)
	}
	if c == nil {
		return "", errors.New("model: create detail curve: nil curve")
	}
	dc := &DetailCurve{ID: tx.nextID("curve"), Curve: c}
	tx.staged = append(tx.staged, dc)
	return dc.ID, nil
}

// NewGroup stages a group of previously staged or committed elements.
func (tx *Transaction) NewGroup(ids []ElementID) (ElementID, error) {
	if tx.closed {
		return "", fmt.Errorf("model: new group: %w", ErrTransactionClosed)
	}
	if len(ids) == 0 {
		return "", errors.New("model: new group: no members")
	}
	for _, id := range ids {
		if !tx.known(id) {
			return "", fmt.Errorf("model: new group: member %s: %w", id.Short(), ErrUnknownElement)
		}
	}
	members := make([]ElementID, len(ids))
	copy(members, ids)
	g := &Group{ID: tx.nextID("group"), Members: members}
	tx.staged = append(tx.staged, g)
	return g.ID, nil
}

func (tx *Transaction) known(id ElementID) bool {
	if _, ok := tx.doc.elements[id]; ok {
		return true
	}
	for _, e := range tx.staged {
		if e.ElementID() == id {
			return true
		}
	}
	return false
}

// Commit adds every staged element to the document.
func (tx *Transaction) Commit() error {
	if tx.closed {
		return fmt.Errorf("model: commit %q: %w", tx.name, ErrTransactionClosed)
	}
	tx.closed = true
	for _, e := range tx.staged {
		if err := tx.doc.Add(e, ""); err != nil {
			return fmt.Errorf("model: commit %q: %w", tx.name, err)
		}
	}
	tx.staged = nil
	return nil
}

// Rollback discards every staged element. Rolling back a closed
// transaction is a no-op.
func (tx *Transaction) Rollback() {
	tx.closed = true
	tx.staged = nil
}
