// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"fmt"
	"runtime/trace"
	"strconv"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/rs/zerolog/log"
)

// Span represents one document resolution in flight.
type Span struct {
	// only these fields are set automatically
	task     *trace.Task
	start    time.Time
	duration time.Duration
	metric   *servertiming.Metric

	Document string
	Locale   string
	Mode     string
	Cached   bool
	Len      int // byte length of the resolved text
	Error    error
}

// ServerTimingName names the Server-Timing metric of the span.
func (span Span) ServerTimingName() string {
	return "resolve$" + span.Document
}

// Begin starts the trace task and, when ctx carries Server-Timing headers,
// a timing metric.
func (span *Span) Begin(ctx context.Context) context.Context {
	span.start = time.Now()

	ctx, span.task = trace.NewTask(ctx, "uitext.resolve")
	trace.Log(ctx, "document", span.Document)

	if servertimingContext := servertiming.FromContext(ctx); servertimingContext != nil {
		span.metric = servertimingContext.NewMetric(span.ServerTimingName())
		span.metric.Desc = span.Locale
		span.metric.Extra = map[string]string{
			"start": strconv.FormatFloat(float64(span.start.UnixNano())/float64(time.Millisecond), 'f', -1, 64),
		}
	}

	return ctx
}

// End stops the span. Later calls do nothing.
func (span *Span) End() {
	if span.task == nil {
		return
	}

	span.duration = time.Since(span.start)
	span.task.End()

	if span.metric != nil {
		span.metric.Duration = span.duration
	}

	span.task = nil
}

// Duration reports the time between Begin and End.
func (span Span) Duration() time.Duration { return span.duration }

// Log emits the span as a debug event.
func (span Span) Log() {
	event := log.Debug()

	event.Str("sys", "resolve")
	event.Str("document", span.Document)
	event.Str("locale", span.Locale)
	event.Str("mode", span.Mode)
	event.Bool("cached", span.Cached)
	event.Str("len", humanizeSize(span.Len))
	event.Dur("dur", span.duration)

	if span.Error != nil {
		event.Err(span.Error)
	}

	event.Send()
}

const (
	bytesInKB = 1024
	bytesInMB = bytesInKB * bytesInKB
	bytesInGB = bytesInMB * bytesInKB
)

func humanizeSize(x int) string {
	if x < bytesInKB {
		return strconv.Itoa(x)
	}

	if x < bytesInMB {
		return fmt.Sprintf("%.2fK", float64(x)/bytesInKB)
	}

	if x < bytesInGB {
		return fmt.Sprintf("%.2fM", float64(x)/bytesInMB)
	}

	return fmt.Sprintf("%.2fG", float64(x)/bytesInGB)
}
