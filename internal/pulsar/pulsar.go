// Package pulsar holds the observational data records the pipeline fits
// models against, and the loader that reads them (plus the shared noise
// parameter dictionary) from disk.
package pulsar

// Pulsar is one pulsar's observational record as stored in the msgpack
// collection file.
type Pulsar struct {
	Name      string    `msgpack:"name"`
	TOAs      []float64 `msgpack:"toas"`
	Residuals []float64 `msgpack:"residuals"`
	TOAErrs   []float64 `msgpack:"toaerrs"`
	RA        float64   `msgpack:"ra"`
	Dec       float64   `msgpack:"dec"`
}
