// Package model defines the host document model the insulation command
// works against: walls with compound layers, hosted openings, wall joins,
// detail curves and groups. Documents are mutated only through a
// Transaction, which either commits every staged element or none.
package model
