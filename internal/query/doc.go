// Package query builds the WHERE, ORDER BY and LIMIT parts of list queries.
//
// Filters are composed from Spec closures. A Spec whose input is empty
// returns no clause, so an absent search term never excludes rows:
//
//	spec := query.And(
//	    query.Contains("name", f.NameContains),
//	    query.Contains("model", f.ModelContains),
//	)
//	where, args := query.Where(spec)
//
// Paging follows the page/size/sort request parameters used by the HTTP
// API, with results wrapped in a Page envelope.
package query
