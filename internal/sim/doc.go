// Package sim runs ownership scripts: small line-oriented programs that
// create cells under shared, weak and exclusive handles and report every
// destruction and handle-table change as it happens.
//
//	make a 1        # in-place shared cell
//	copy b a
//	weak w a
//	reset a
//	reset b         # destroyed a (1)
//	expect w state=expired
//
// Usage lists the full command set.
package sim
