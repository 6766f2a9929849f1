// Command generate writes the sample inputs used in the README.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/segmentio/parquet-go"
)

type Person struct {
	Name string `parquet:"name"`
	Age  int32  `parquet:"age"`
	City string `parquet:"city"`
}

var people = []Person{
	{Name: "alice", Age: 30, City: "NYC"},
	{Name: "bob", Age: 25, City: "LA"},
	{Name: "charlie", Age: 35, City: "NYC"},
	{Name: "diana", Age: 28, City: "SF"},
	{Name: "eve", Age: 42, City: "LA"},
}

func main() {
	if err := writeDelimited("people.csv", false); err != nil {
		log.Fatal(err)
	}
	if err := writeDelimited("people.csv.gz", true); err != nil {
		log.Fatal(err)
	}
	if err := writeParquet("people.parquet"); err != nil {
		log.Fatal(err)
	}
	log.Printf("Generated people.csv, people.csv.gz and people.parquet with %d rows", len(people))
}

func writeDelimited(path string, compress bool) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var w interface {
		Write([]byte) (int, error)
	} = file
	var gz *gzip.Writer
	if compress {
		gz = gzip.NewWriter(file)
		w = gz
	}

	fmt.Fprintln(w, "name;age;city")
	for _, p := range people {
		fmt.Fprintf(w, "%s;%d;%s\n", p.Name, p.Age, p.City)
	}
	if gz != nil {
		return gz.Close()
	}
	return nil
}

func writeParquet(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[Person](file)
	if _, err := writer.Write(people); err != nil {
		return err
	}
	return writer.Close()
}
