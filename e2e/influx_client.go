package e2e

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// InfluxReader queries what the influx sink wrote during a run.
type InfluxReader struct {
	org    string
	bucket string
	client influxdb2.Client
	query  api.QueryAPI
}

// NewInfluxReader connects to a running InfluxDB instance.
func NewInfluxReader(url, org, bucket, token string) *InfluxReader {
	c := influxdb2.NewClient(url, token)
	return &InfluxReader{org: org, bucket: bucket, client: c, query: c.QueryAPI(org)}
}

// LastField returns the most recent value of field in measurement for run.
func (r *InfluxReader) LastField(ctx context.Context, measurement, field, runID string) (any, error) {
	flux := fmt.Sprintf(`from(bucket:%q)
  |> range(start: 0)
  |> filter(fn: (r) => r._measurement == %q and r._field == %q and r.run_id == %q)
  |> last()`, r.bucket, measurement, field, runID)
	res, err := r.query.Query(ctx, flux)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Close() }()
	var v any
	found := false
	for res.Next() {
		v, found = res.Record().Value(), true
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("no %s.%s for run %s", measurement, field, runID)
	}
	return v, nil
}

// Count returns the number of points of measurement written for run.
func (r *InfluxReader) Count(ctx context.Context, measurement, runID string) (int, error) {
	flux := fmt.Sprintf(`from(bucket:%q)
  |> range(start: 0)
  |> filter(fn: (r) => r._measurement == %q and r.run_id == %q)`, r.bucket, measurement, runID)
	res, err := r.query.Query(ctx, flux)
	if err != nil {
		return 0, err
	}
	defer func() { _ = res.Close() }()
	n := 0
	for res.Next() {
		n++
	}
	return n, res.Err()
}

// Close releases the underlying client.
func (r *InfluxReader) Close() { r.client.Close() }
