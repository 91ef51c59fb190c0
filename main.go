package main

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"embed"
	"flag"
	"fmt"
	"html/template"
	"math/big"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hulkholden/canvasclear/static"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

var (
	//go:embed templates/*
	templatesFS embed.FS
	indexTmpl   = template.Must(template.ParseFS(templatesFS, "templates/index.html"))
)

type config struct {
	port           int
	useTLS         bool
	basePath       string
	hostElementID  string
	distDir        string
	logLevel       string
	clientLogLevel string
}

// registerFlags defines the server flags on fs. Defaults come from the
// environment, which godotenv may have populated from a .env file.
func registerFlags(fs *flag.FlagSet) *config {
	c := &config{}
	fs.IntVar(&c.port, "port", envInt("PORT", 80), "http port to listen on")
	fs.BoolVar(&c.useTLS, "tls", envBool("USE_TLS", false), "enable HTTPS with a self-signed certificate")
	fs.StringVar(&c.basePath, "base_path", envString("BASE_PATH", ""), "base path to serve on, e.g. '/foo/'")
	fs.StringVar(&c.hostElementID, "host_element", envString("HOST_ELEMENT", "canvas-host"), "id of the element the canvas is attached to")
	fs.StringVar(&c.distDir, "dist_dir", envString("DIST_DIR", "dist"), "directory holding client.wasm and wasm_exec.js")
	fs.StringVar(&c.logLevel, "log_level", envString("LOG_LEVEL", "info"), "log level for the server")
	fs.StringVar(&c.clientLogLevel, "client_log_level", envString("CLIENT_LOG_LEVEL", ""), "log level for the wasm client; empty uses the client default")
	return c
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		log.WithField("key", key).WithError(err).Warn("Ignoring invalid integer in environment")
		return def
	}
	return i
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.WithField("key", key).WithError(err).Warn("Ignoring invalid boolean in environment")
		return def
	}
	return b
}

type server struct {
	basePath       string
	hostElementID  string
	clientLogLevel string
}

type indexData struct {
	BasePath      string
	HostElementID string
	LogLevel      string
}

func (s server) index(w http.ResponseWriter, r *http.Request) {
	// By default "/" matches any path - e.g. "/non-existent".
	if r.URL.Path != s.basePath {
		// TODO: does returning 404 for "/" cause gce ingress to return 502s?
		if r.URL.Path != "/" {
			http.NotFound(w, r)
		}
		return
	}

	data := indexData{
		BasePath:      s.basePath,
		HostElementID: s.hostElementID,
		LogLevel:      s.clientLogLevel,
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.WithError(err).Error("Rendering index failed")
	}
}

// makeGzipHandler returns a HTTP HanderFunc which serves a gzipped version of the content.
func makeGzipHandler(h http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			h.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Encoding", "gzip")
		// TODO: figure this out from the underlying file if we use this for more than just the .wasm.
		w.Header().Set("Content-Type", "application/wasm")
		r.URL.Path += ".gz"
		if r.URL.RawPath != "" {
			r.URL.RawPath += ".gz"
		}
		h.ServeHTTP(w, r)
	}
}

func logRequest(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		handler.ServeHTTP(rec, r)
		log.WithFields(log.Fields{
			"remote":   r.RemoteAddr,
			"method":   r.Method,
			"status":   rec.status,
			"bytes":    rec.bytes,
			"duration": time.Since(start),
			"url":      r.URL.String(),
		}).Info("Request")
	})
}

// responseRecorder captures the status code and body size of a response.
type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// canonicalizeBasePath returns s with exactly one leading and one trailing slash.
func canonicalizeBasePath(s string) string {
	trimmed := strings.Trim(s, "/")
	if trimmed == "" {
		return "/"
	}
	return "/" + trimmed + "/"
}

func newMux(c *config) *http.ServeMux {
	basePath := canonicalizeBasePath(c.basePath)
	srv := server{
		basePath:       basePath,
		hostElementID:  c.hostElementID,
		clientLogLevel: c.clientLogLevel,
	}

	mux := http.NewServeMux()
	mux.HandleFunc(basePath, srv.index)

	staticHandler := http.FileServer(http.FS(static.FS))
	mux.Handle(basePath+"static/", http.StripPrefix(basePath+"static/", staticHandler))

	distHandler := http.FileServer(http.Dir(c.distDir))
	mux.Handle(basePath+"dist/", http.StripPrefix(basePath+"dist/", distHandler))
	// If client.wasm is requested, redirect to a gzipped version.
	mux.Handle(basePath+"dist/client.wasm", http.StripPrefix(basePath+"dist/", makeGzipHandler(distHandler)))
	return mux
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Failed to load .env")
	}
	c := registerFlags(flag.CommandLine)
	flag.Parse()

	if level, err := log.ParseLevel(c.logLevel); err != nil {
		log.WithError(err).Warn("Ignoring invalid log level")
	} else {
		log.SetLevel(level)
	}

	addr := fmt.Sprintf(":%d", c.port)
	handler := logRequest(newMux(c))

	if c.useTLS {
		tlsCert, err := newDevCertificate(devCertHosts, time.Now(), 24*time.Hour)
		if err != nil {
			log.WithError(err).Fatal("Failed to generate self-signed certificate")
		}
		srv := &http.Server{
			Addr:    addr,
			Handler: handler,
			TLSConfig: &tls.Config{
				Certificates: []tls.Certificate{tlsCert},
			},
		}
		log.Infof("Listening on https://0.0.0.0%s", addr)
		if err := srv.ListenAndServeTLS("", ""); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	} else {
		log.Infof("Listening on http://0.0.0.0%s", addr)
		if err := http.ListenAndServe(addr, handler); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}
}

// devCertHosts are the names the development certificate is valid for.
var devCertHosts = []string{"localhost", "127.0.0.1", "::1"}

// newDevCertificate creates an in-memory self-signed certificate for hosts,
// valid from now for validFor. Hosts that parse as IPs become IP SANs.
func newDevCertificate(hosts []string, now time.Time, validFor time.Duration) (tls.Certificate, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("generating key: %w", err)
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("generating serial number: %w", err)
	}

	tmpl := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{Organization: []string{"canvasclear dev"}},
		NotBefore:             now,
		NotAfter:              now.Add(validFor),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			tmpl.IPAddresses = append(tmpl.IPAddresses, ip)
		} else {
			tmpl.DNSNames = append(tmpl.DNSNames, h)
		}
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("creating certificate: %w", err)
	}
	leaf, err := x509.ParseCertificate(der)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("parsing certificate: %w", err)
	}
	return tls.Certificate{
		Certificate: [][]byte{der},
		PrivateKey:  key,
		Leaf:        leaf,
	}, nil
}
