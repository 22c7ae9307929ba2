// Package series provides the time-indexed sample table behind input
// application: typed columns over a non-decreasing time axis, a cached
// bracketing lookup, and the linear/hold blend policies.
//
// Duplicate adjacent timestamps encode an instantaneous jump; lookups
// disambiguate them with an after-event flag. Queries outside the sampled
// range clamp to the nearest edge row, never extrapolate.
package series
