package cooling

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/cosmotree/sage/internal/faults"
)

// LoadSimpleASCII reads eight whitespace-separated files (one per
// metallicity row, NumTempBins "logT logLambda" pairs each, in
// increasing logT order) and assembles a Table. This is a convenience
// loader for tests and standalone operation: the real Sutherland &
// Dopita table reader is an external collaborator per spec §1
// ("the table itself is a dependency").
func LoadSimpleASCII(open func(row int) (io.ReadCloser, error)) (*Table, error) {
	var samples [NumMetalBins][NumTempBins]float64

	for row := 0; row < NumMetalBins; row++ {
		f, err := open(row)
		if err != nil {
			return nil, &faults.MissingDataFile{Path: fmt.Sprintf("cooling row %d", row), Err: err}
		}

		n, err := readRow(f, &samples[row])
		closeErr := f.Close()
		if err != nil {
			return nil, &faults.FormatError{Reason: fmt.Sprintf("cooling row %d: %v", row, err)}
		}
		if closeErr != nil {
			return nil, &faults.FormatError{Reason: fmt.Sprintf("cooling row %d: close: %v", row, closeErr)}
		}
		if n != NumTempBins {
			return nil, &faults.FormatError{Reason: fmt.Sprintf("cooling row %d: expected %d samples, got %d", row, NumTempBins, n)}
		}
	}

	return NewTable(samples), nil
}

func readRow(r io.Reader, out *[NumTempBins]float64) (int, error) {
	scanner := bufio.NewScanner(r)
	count := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return count, fmt.Errorf("malformed row at line %d", count+1)
		}
		logLambda, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return count, fmt.Errorf("parse logLambda: %w", err)
		}
		if count >= NumTempBins {
			break
		}
		if math.IsNaN(logLambda) {
			return count, fmt.Errorf("NaN logLambda at line %d", count+1)
		}
		out[count] = logLambda
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, err
	}
	return count, nil
}
