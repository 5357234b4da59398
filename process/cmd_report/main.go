package main

import (
	"flag"
	"fmt"
	"os"

	"edak/process/report"

	"github.com/joho/godotenv"
)

func main() {
	month := flag.String("month", "", "month to export (YYYY-MM)")
	cfgPath := flag.String("config", "report_config.json", "report configuration file")
	out := flag.String("out", "", "output .xlsx path (default travel-diary-<month>.xlsx)")
	flag.Parse()

	if *month == "" {
		fmt.Fprintln(os.Stderr, "--month is required (YYYY-MM)")
		os.Exit(2)
	}
	_ = godotenv.Load()
	if os.Getenv("DB_DSN") == "" {
		fmt.Fprintln(os.Stderr, "DB_DSN not set; export DB_DSN and retry")
		os.Exit(2)
	}
	outPath := *out
	if outPath == "" {
		outPath = "travel-diary-" + *month + ".xlsx"
	}
	report.Run(*month, *cfgPath, outPath)
}
