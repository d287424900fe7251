// Package charts turns filtered rental tables into declarative chart specs.
//
// Every builder is a pure function of its input rows. Builders never modify
// their input and never start goroutines, so the same tables can be shared by
// concurrent requests. A category with no rows is left out of the result;
// nothing is zero-filled.
//
//	sections := charts.Build(filtered)
//	spec, ok := charts.BuildChart(domain.ChartSeasonal, filtered)
package charts
