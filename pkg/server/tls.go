package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"atomic-explorer/aihub/pkg/config"
	"atomic-explorer/aihub/pkg/telemetry/logging"
)

// certExpiryWarning is how close to expiry a certificate must be before
// every load logs a warning.
const certExpiryWarning = 30 * 24 * time.Hour

// CertificateReloader serves a certificate pair from disk and picks up
// renewed files without a restart by polling their modification times.
type CertificateReloader struct {
	certFile string
	keyFile  string
	interval time.Duration
	logger   *logging.Logger

	mu       sync.RWMutex
	cert     *tls.Certificate
	certTime time.Time
	keyTime  time.Time
}

// NewCertificateReloader creates a reloader for the given pair. A nil logger
// discards output.
func NewCertificateReloader(certFile, keyFile string, interval time.Duration, logger *logging.Logger) *CertificateReloader {
	if logger == nil {
		logger = logging.Nop()
	}
	return &CertificateReloader{
		certFile: certFile,
		keyFile:  keyFile,
		interval: interval,
		logger:   logger,
	}
}

// Start loads the initial certificate and, when the interval is positive,
// polls for changes until ctx ends.
func (r *CertificateReloader) Start(ctx context.Context) error {
	if err := r.reload(); err != nil {
		return err
	}
	r.logCertificate()

	if r.interval > 0 {
		go r.reloadLoop(ctx)
	}
	return nil
}

func (r *CertificateReloader) reloadLoop(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.checkAndReload()
		case <-ctx.Done():
			return
		}
	}
}

// checkAndReload reloads the pair when either file changed. A failed reload
// keeps the previous certificate in service.
func (r *CertificateReloader) checkAndReload() {
	if !r.needsReload() {
		return
	}
	if err := r.reload(); err != nil {
		r.logger.Error("failed to reload certificate",
			"error", err,
			"cert_file", r.certFile,
			"key_file", r.keyFile,
		)
		return
	}
	r.logger.Info("certificate reloaded", "cert_file", r.certFile)
	r.logCertificate()
}

func (r *CertificateReloader) needsReload() bool {
	certInfo, err := os.Stat(r.certFile)
	if err != nil {
		return false
	}
	keyInfo, err := os.Stat(r.keyFile)
	if err != nil {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return certInfo.ModTime().After(r.certTime) || keyInfo.ModTime().After(r.keyTime)
}

func (r *CertificateReloader) reload() error {
	certInfo, err := os.Stat(r.certFile)
	if err != nil {
		return fmt.Errorf("failed to stat certificate: %w", err)
	}
	keyInfo, err := os.Stat(r.keyFile)
	if err != nil {
		return fmt.Errorf("failed to stat key: %w", err)
	}

	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return fmt.Errorf("failed to load key pair: %w", err)
	}
	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return fmt.Errorf("failed to parse certificate: %w", err)
	}
	if time.Now().After(leaf.NotAfter) {
		return fmt.Errorf("certificate expired on %s", leaf.NotAfter.Format(time.RFC3339))
	}
	cert.Leaf = leaf

	r.mu.Lock()
	r.cert = &cert
	r.certTime = certInfo.ModTime()
	r.keyTime = keyInfo.ModTime()
	r.mu.Unlock()
	return nil
}

// Certificate returns the certificate currently in service.
func (r *CertificateReloader) Certificate() *tls.Certificate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cert
}

// GetCertificate is suitable for tls.Config.GetCertificate.
func (r *CertificateReloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	cert := r.Certificate()
	if cert == nil {
		return nil, errors.New("no certificate loaded")
	}
	return cert, nil
}

func (r *CertificateReloader) logCertificate() {
	cert := r.Certificate()
	if cert == nil || cert.Leaf == nil {
		return
	}

	leaf := cert.Leaf
	remaining := time.Until(leaf.NotAfter)
	args := []any{
		"subject", leaf.Subject.CommonName,
		"expires_in_days", int(remaining.Hours() / 24),
		"expires_at", leaf.NotAfter.Format(time.RFC3339),
	}
	if remaining < certExpiryWarning {
		r.logger.Warn("certificate expiring soon", args...)
		return
	}
	r.logger.Info("certificate loaded", append(args, "issuer", leaf.Issuer.CommonName)...)
}

// tlsVersion maps a configured version string to its crypto/tls constant.
func tlsVersion(v string) uint16 {
	if v == "1.2" {
		return tls.VersionTLS12
	}
	return tls.VersionTLS13
}

// newTLSConfig builds the listener configuration around a started reloader.
func newTLSConfig(cfg config.TLSConfig, reloader *CertificateReloader) *tls.Config {
	return &tls.Config{
		MinVersion:     tlsVersion(cfg.MinVersion),
		GetCertificate: reloader.GetCertificate,
		NextProtos:     []string{"h2", "http/1.1"},
	}
}
