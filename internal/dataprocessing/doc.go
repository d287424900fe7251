// Package dataprocessing loads the bike sharing tables and filters them by date.
//
// # Architecture
//
// The package is organized into four components:
//
// 1. Loader: fetches the daily and hourly CSV sources (URL or local path) concurrently
// 2. Parser: reads each CSV into a dataframe and types its rows, applying the code labels
// 3. Store: memoizes the loaded tables for the lifetime of the process
// 4. Filter: selects rows whose calendar date falls inside an inclusive range
//
// # Usage
//
//	loader := dataprocessing.NewLoader(dataprocessing.Sources{
//	    Daily:  cfg.Data.DailySource,
//	    Hourly: cfg.Data.HourlySource,
//	}, dataprocessing.WithFetchTimeout(cfg.Data.FetchTimeout))
//	store := dataprocessing.NewStore(loader, logger, metrics)
//
//	tables, err := store.Tables(ctx)
//	if err != nil {
//	    return err
//	}
//	filtered := dataprocessing.FilterTables(tables, start, end)
//
// # Error Handling
//
// Fetch failures are NETWORK (or NOT_FOUND for missing local files) AppErrors.
// Malformed rows are PARSING AppErrors carrying the table, row and column.
// The Store keeps the first result, success or failure, and never retries.
package dataprocessing
