// SPDX-License-Identifier: Apache-2.0

package ledger

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// DefaultRPCPort is the full node RPC port of a default installation.
const DefaultRPCPort = 8555

// NodeConfig locates the RPC endpoint of a full node and the private
// certificates used to authenticate against it.
type NodeConfig struct {
	Host     string
	Port     int
	CertFile string
	KeyFile  string
	CAFile   string
}

// chiaConfig is the part of config/config.yaml read by LoadNodeConfig.
type chiaConfig struct {
	SelfHostname string `yaml:"self_hostname"`
	PrivateSSLCA struct {
		Crt string `yaml:"crt"`
	} `yaml:"private_ssl_ca"`
	FullNode struct {
		RPCPort int `yaml:"rpc_port"`
		SSL     struct {
			PrivateCrt string `yaml:"private_crt"`
			PrivateKey string `yaml:"private_key"`
		} `yaml:"ssl"`
	} `yaml:"full_node"`
}

// LoadNodeConfig reads config/config.yaml below the chia root directory.
// Relative certificate paths are resolved against root.
func LoadNodeConfig(root string) (NodeConfig, error) {
	path := filepath.Join(root, "config", "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return NodeConfig{}, errors.Wrap(ErrNodeConfig, err.Error())
	}

	var raw chiaConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return NodeConfig{}, errors.Wrapf(ErrNodeConfig, "parsing %s: %v", path, err)
	}

	cfg := NodeConfig{
		Host:     raw.SelfHostname,
		Port:     raw.FullNode.RPCPort,
		CertFile: resolve(root, raw.FullNode.SSL.PrivateCrt),
		KeyFile:  resolve(root, raw.FullNode.SSL.PrivateKey),
		CAFile:   resolve(root, raw.PrivateSSLCA.Crt),
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultRPCPort
	}
	if cfg.CertFile == "" || cfg.KeyFile == "" || cfg.CAFile == "" {
		return NodeConfig{}, errors.Wrapf(ErrNodeConfig, "%s: missing full node certificate paths", path)
	}
	return cfg, nil
}

func resolve(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// URL returns the base URL of the RPC endpoint.
func (c NodeConfig) URL() string {
	return fmt.Sprintf("https://%s:%d", c.Host, c.Port)
}

// TLSConfig loads the client key pair and trusts only the private CA. The
// node certificates are issued for a fixed name, so the host name is not
// checked.
func (c NodeConfig) TLSConfig() (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return nil, errors.Wrap(ErrNodeConfig, err.Error())
	}
	caPEM, err := os.ReadFile(c.CAFile)
	if err != nil {
		return nil, errors.Wrap(ErrNodeConfig, err.Error())
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, errors.Wrapf(ErrNodeConfig, "no certificate in %s", c.CAFile)
	}
	return newTLSConfig(cert, pool), nil
}

func newTLSConfig(cert tls.Certificate, roots *x509.CertPool) *tls.Config {
	return &tls.Config{
		Certificates:          []tls.Certificate{cert},
		MinVersion:            tls.VersionTLS12,
		InsecureSkipVerify:    true, //nolint:gosec // chain is checked in VerifyPeerCertificate
		VerifyPeerCertificate: verifyChain(roots),
	}
}

// verifyChain checks the presented chain against roots without a name check.
func verifyChain(roots *x509.CertPool) func([][]byte, [][]*x509.Certificate) error {
	return func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
		if len(rawCerts) == 0 {
			return errors.New("no server certificate")
		}
		certs := make([]*x509.Certificate, len(rawCerts))
		for i, raw := range rawCerts {
			cert, err := x509.ParseCertificate(raw)
			if err != nil {
				return errors.WithMessage(err, "parsing server certificate")
			}
			certs[i] = cert
		}
		intermediates := x509.NewCertPool()
		for _, cert := range certs[1:] {
			intermediates.AddCert(cert)
		}
		_, err := certs[0].Verify(x509.VerifyOptions{
			Roots:         roots,
			Intermediates: intermediates,
			KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
		})
		return errors.WithMessage(err, "verifying server certificate")
	}
}
