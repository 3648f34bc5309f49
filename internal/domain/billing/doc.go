// Package billing provides the domain model for client invoicing and payment tracking.
//
// This package implements the billing bounded context, which is responsible for:
//   - Managing clients and the invoices issued to them
//   - Tracking invoice line items and recorded payments
//   - Deriving invoice status from the payments applied to an invoice
//
// Key Aggregates:
//   - Client: A party that receives invoices
//   - Invoice: A bill issued to a client, with line items and a lifecycle status
//   - Payment: A sum applied against an invoice
//
// Invoice status transitions driven by payments (sent, partially_paid, paid)
// are computed by the application layer inside a single transaction so that
// a stored payment and its invoice status never disagree.
package billing
