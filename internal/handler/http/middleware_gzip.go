package http

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

var gzipWriterPool = sync.Pool{
	New: func() any {
		return gzip.NewWriter(nil)
	},
}

var gzipReaderPool = sync.Pool{
	New: func() any {
		return new(gzip.Reader)
	},
}

// withGZip inflates gzip request bodies and compresses responses for clients
// that accept gzip. Compression starts lazily on the first body write, so
// bodiless answers such as the long-poll 204 are sent untouched.
func (h *Handler) withGZip(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") && r.Body != nil {
			gzipReader := gzipReaderPool.Get().(*gzip.Reader)
			if err := gzipReader.Reset(r.Body); err != nil {
				gzipReaderPool.Put(gzipReader)
				http.Error(w, "invalid gzip data", http.StatusBadRequest)
				return
			}

			r.Body = &pooledGzipReader{Reader: gzipReader, source: r.Body}
			r.Header.Del("Content-Encoding")
		}

		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		gw := &gzipResponseWriter{ResponseWriter: w}
		defer gw.finish()

		w.Header().Add("Vary", "Accept-Encoding")
		next.ServeHTTP(gw, r)
	})
}

// pooledGzipReader returns its reader to the pool on Close.
type pooledGzipReader struct {
	*gzip.Reader
	source io.ReadCloser
}

func (p *pooledGzipReader) Close() error {
	err := p.source.Close()
	p.Reader.Close()
	gzipReaderPool.Put(p.Reader)
	return err
}

type gzipResponseWriter struct {
	http.ResponseWriter

	status      int
	wroteHeader bool
	gzipWriter  *gzip.Writer
}

// WriteHeader is deferred until the first Write so Content-Encoding is only
// set on responses that actually carry a body.
func (w *gzipResponseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.status = statusCode
	w.wroteHeader = true
	if !bodyAllowed(statusCode) {
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if !bodyAllowed(w.status) {
		return 0, http.ErrBodyNotAllowed
	}
	if w.gzipWriter == nil {
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Del("Content-Length")
		w.ResponseWriter.WriteHeader(w.status)

		w.gzipWriter = gzipWriterPool.Get().(*gzip.Writer)
		w.gzipWriter.Reset(w.ResponseWriter)
	}
	return w.gzipWriter.Write(data)
}

// finish flushes the compressed stream, or the pending status of a response
// that never wrote a body.
func (w *gzipResponseWriter) finish() {
	if w.gzipWriter == nil {
		if w.wroteHeader && bodyAllowed(w.status) {
			w.ResponseWriter.WriteHeader(w.status)
		}
		return
	}
	w.gzipWriter.Close()
	gzipWriterPool.Put(w.gzipWriter)
}

func bodyAllowed(status int) bool {
	return status != http.StatusNoContent && status != http.StatusNotModified && status >= http.StatusOK
}
