package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/pmsched/core/metrics"
	"github.com/kilianp07/pmsched/infra/logger"
)

// InfluxSink writes analysis results to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.ReportSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close releases the underlying client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

// RecordSchedule writes one point per activity followed by a run summary.
func (s *InfluxSink) RecordSchedule(ev coremetrics.ScheduleEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	points := make([]*write.Point, 0, len(ev.Activities)+1)
	critical := 0
	for _, a := range ev.Activities {
		if a.Critical {
			critical++
		}
		points = append(points, write.NewPointWithMeasurement("schedule_activity").
			AddTag("activity_id", a.ID).
			AddTag("critical", strconv.FormatBool(a.Critical)).
			AddTag("project", ev.Project).
			AddTag("run_id", ev.RunID).
			AddField("duration", a.Duration).
			AddField("ef", a.EF).
			AddField("es", a.ES).
			AddField("lf", a.LF).
			AddField("ls", a.LS).
			AddField("total_float", a.TotalFloat).
			SetTime(ev.Time))
	}
	points = append(points, write.NewPointWithMeasurement("schedule_run").
		AddTag("project", ev.Project).
		AddTag("run_id", ev.RunID).
		AddField("critical_activities", critical).
		AddField("duration", ev.Duration).
		SetTime(ev.Time))
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordResources writes the peak and average demand of each resource kind.
func (s *InfluxSink) RecordResources(ev coremetrics.ResourceEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	points := make([]*write.Point, 0, len(ev.Loads))
	for _, l := range ev.Loads {
		points = append(points, write.NewPointWithMeasurement("resource_load").
			AddTag("kind", l.Kind).
			AddTag("project", ev.Project).
			AddTag("run_id", ev.RunID).
			AddField("average", round3(l.Average)).
			AddField("peak", l.Peak).
			SetTime(ev.Time))
	}
	if len(points) == 0 {
		return nil
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordCompletion writes one point per target duration.
func (s *InfluxSink) RecordCompletion(ev coremetrics.CompletionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	points := make([]*write.Point, 0, len(ev.Points))
	for _, p := range ev.Points {
		points = append(points, write.NewPointWithMeasurement("completion_probability").
			AddTag("project", ev.Project).
			AddTag("run_id", ev.RunID).
			AddTag("target", strconv.FormatFloat(p.Target, 'f', -1, 64)).
			AddField("expected", round3(ev.Expected)).
			AddField("probability", p.Probability).
			AddField("std_dev", round3(ev.StdDev)).
			SetTime(ev.Time))
	}
	if len(points) == 0 {
		return nil
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordPerformance writes the earned value snapshot.
func (s *InfluxSink) RecordPerformance(ev coremetrics.PerformanceEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("earned_value").
		AddTag("project", ev.Project).
		AddTag("run_id", ev.RunID).
		AddField("ac", round3(ev.AC)).
		AddField("bac", round3(ev.BAC)).
		AddField("cpi", round3(ev.CPI)).
		AddField("eac", round3(ev.EAC)).
		AddField("ev", round3(ev.EV)).
		AddField("pv", round3(ev.PV)).
		AddField("spi", round3(ev.SPI)).
		AddField("tcpi", round3(ev.TCPI)).
		AddField("vac", round3(ev.VAC)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
