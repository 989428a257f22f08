package testutil

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ConfigSuite provides a temp directory and context for tests that load
// pool configuration from disk.
type ConfigSuite struct {
	suite.Suite
	ctx     context.Context
	cancel  context.CancelFunc
	tempDir string
}

// SetupSuite runs before all tests in the suite
func (s *ConfigSuite) SetupSuite() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), time.Minute)
	s.tempDir = s.T().TempDir()
}

// TearDownSuite runs after all tests in the suite
func (s *ConfigSuite) TearDownSuite() {
	s.cancel()
}

// Context returns the suite context
func (s *ConfigSuite) Context() context.Context {
	return s.ctx
}

// TempDir returns the temporary directory path
func (s *ConfigSuite) TempDir() string {
	return s.tempDir
}

// CreateTempFile creates a temporary file with content
func (s *ConfigSuite) CreateTempFile(name string, content []byte) string {
	path := filepath.Join(s.tempDir, name)
	err := os.WriteFile(path, content, 0o644)
	require.NoError(s.T(), err)
	return path
}
