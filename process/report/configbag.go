package report

import (
	"encoding/json"
	"log"
	"os"
)

// loadConfigBag reads the report-configuration key/value file; a missing file
// just means blank headers.
func loadConfigBag(path string) map[string]string {
	vals := map[string]string{}
	b, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("report config read failed: %v", err)
		}
		return vals
	}
	if err := json.Unmarshal(b, &vals); err != nil {
		log.Printf("report config is not valid JSON: %v", err)
	}
	return vals
}
