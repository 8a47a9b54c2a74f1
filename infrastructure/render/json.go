package render

import (
	"encoding/json"
	"io"

	"github.com/cratediff/cratediff/domain"
)

// JSON writes the report as indented JSON for machine consumption.
func JSON(w io.Writer, report *domain.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
