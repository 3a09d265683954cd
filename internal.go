package main

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/rs/zerolog"
)

// largest CSP violation report we bother reading
const maxCSPReportBytes = 64 << 10

func pingHandler() http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("pong"))
	})
}

// cspReportHandler takes the browser's report-uri POSTs. Reports are keyed by
// month and content hash so repeats of one violation land on the same key.
// With a PE_CSP_BUCKET they are uploaded to S3, otherwise only logged.
func cspReportHandler(deps *Dependencies) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context())

		b, err := io.ReadAll(io.LimitReader(r.Body, maxCSPReportBytes))
		if err != nil {
			logger.Warn().Err(err).Msg("failed to read csp report")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		cspReport := string(b)

		currentMonth := time.Now().UTC().Format("2006-01")
		logKey := fmt.Sprintf("csp-violations/%s/%x", currentMonth, sha1.Sum(b))
		cspViolations.Inc()

		bucket := deps.config.CSPBucket
		if bucket == "" || deps.s3svc == nil {
			logger.Warn().Str("key", logKey).Str("report", cspReport).Msg("csp violation reported")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		inputPutObj := &s3.PutObjectInput{
			Body:        bytes.NewReader(b),
			Bucket:      aws.String(bucket),
			Key:         aws.String(logKey),
			ContentType: aws.String("application/csp-report"),
		}
		_, err = deps.s3svc.PutObjectWithContext(r.Context(), inputPutObj)
		if err != nil {
			logger.Warn().Err(err).
				Str("bucket", bucket).
				Str("key", logKey).
				Str("report", cspReport).
				Msg("failed to upload to S3 bucket")
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
