// Package refdata loads the two reference tables a reporting run needs: the
// IANA protocol-number registry and the (port, protocol) tag lookup table.
// Both are built once from CSV sources and are read-only afterwards. Lookups
// are two-valued; the Unassigned/untagged fallbacks apply only at the Resolve
// boundary.
package refdata
