// Package output turns query results into text.
//
// Query execution produces handles, not values. Materialize reads the cells
// of the surviving rows into a Table, and a Formatter writes that table.
//
// # Supported Formats
//
//   - table: aligned text table (the interactive default)
//   - csv: comma-separated values with header row
//   - jsonl: one JSON object per line, keys in query column order
//
// # Basic Usage
//
//	res, err := executor.New(ws).Execute(stmt)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	table, err := output.Materialize(ws, res)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	formatter, _ := output.NewFormatter("csv", os.Stdout)
//	if err := formatter.Format(table); err != nil {
//	    log.Fatal(err)
//	}
//
// # CSV Injection
//
// The CSV formatter prefixes cells starting with =, +, -, @, |, tab or a
// line break with a single quote so spreadsheets do not evaluate them.
package output
