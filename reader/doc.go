// Package reader ingests files into a columnar working set.
//
// Two source formats are supported:
//
//   - Delimited text (semicolon-separated by default). The first record is
//     the header; every following record must have the same number of cells.
//     Files ending in .gz, .zst, .lz4 or .br are decompressed on the fly.
//   - Apache Parquet (.parquet). Columns come from the top-level schema
//     fields; values are rendered as text.
//
// Header names and cell values are trimmed before they are stored.
//
// # Basic Usage
//
//	ws, err := reader.Load("people.csv", reader.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(ws.Columns(), ws.Len())
//
// # Multi-file Loading
//
// A glob pattern loads every matching file, in lexical order, into one
// working set. All files must have the same header:
//
//	ws, err := reader.Load("logs/2024-*.csv.gz", reader.DefaultOptions())
//
// # Streaming Records
//
// Open returns a Source for a single file, for callers that want the records
// without building a working set:
//
//	src, err := reader.Open("people.csv", reader.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer src.Close()
//	for {
//	    record, err := src.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    ...
//	}
package reader
