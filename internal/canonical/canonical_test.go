package canonical

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type CanonicalSuite struct {
	suite.Suite
}

func TestCanonicalSuite(t *testing.T) {
	suite.Run(t, new(CanonicalSuite))
}

func (s *CanonicalSuite) TestWebDeepLink() {
	code, ok := Canonicalize("https://lifecompass.app/r/USER-ABC123")
	s.True(ok)
	s.Equal("USER-ABC123", code)
}

func (s *CanonicalSuite) TestCustomSchemeDeepLink() {
	code, ok := Canonicalize("lifecompass://r/MOBILE-XYZ789")
	s.True(ok)
	s.Equal("MOBILE-XYZ789", code)
}

func (s *CanonicalSuite) TestSchemeAndWebFormsAgree() {
	webCode, _ := Canonicalize("https://lifecompass.app/r/SAME-1")
	schemeCode, _ := Canonicalize("lifecompass://r/SAME-1")
	s.Equal(webCode, schemeCode)
}

func (s *CanonicalSuite) TestPathCodeStopsAtQuery() {
	code, ok := Canonicalize("https://lifecompass.app/r/USER-1?utm_source=share")
	s.True(ok)
	s.Equal("USER-1", code)
}

func (s *CanonicalSuite) TestGatewayRelayLink() {
	code, ok := Canonicalize("https://links.example.com/u/lifecompass.app/r/RELAY-42")
	s.True(ok)
	s.Equal("RELAY-42", code)
}

func (s *CanonicalSuite) TestLegacyQueryParameter() {
	code, ok := Canonicalize("https://lifecompass.app/?ref=LEGACY-456")
	s.True(ok)
	s.Equal("LEGACY-456", code)
}

func (s *CanonicalSuite) TestStoreMetadataParameter() {
	code, ok := Canonicalize("https://apps.example.com/app/lifecompass?ct=STORE-7&mt=8")
	s.True(ok)
	s.Equal("STORE-7", code)
}

func (s *CanonicalSuite) TestPathFormWinsOverQueryParams() {
	code, ok := Canonicalize("https://lifecompass.app/r/PATH-1?ref=QUERY-2&ct=QUERY-3")
	s.True(ok)
	s.Equal("PATH-1", code)
}

func (s *CanonicalSuite) TestLegacyParamWinsOverStoreParam() {
	code, ok := Canonicalize("https://lifecompass.app/?ct=STORE-1&ref=LEGACY-1")
	s.True(ok)
	s.Equal("LEGACY-1", code)
}

func (s *CanonicalSuite) TestUnrecognizedLinks() {
	for _, raw := range []string{
		"",
		"https://lifecompass.app/",
		"https://lifecompass.app/about",
		"not a url at all",
		"https://lifecompass.app/r/",
		"https://lifecompass.app/?ref=",
		"https://lifecompass.app/?other=x",
	} {
		s.Run(raw, func() {
			code, ok := Canonicalize(raw)
			s.False(ok)
			s.Empty(code)
		})
	}
}

func (s *CanonicalSuite) TestEmptyPathCodeFallsThroughToQuery() {
	code, ok := Canonicalize("https://lifecompass.app/r/?ref=FALLBACK-9")
	s.True(ok)
	s.Equal("FALLBACK-9", code)
}

func (s *CanonicalSuite) TestMalformedURLWithQueryStillScanned() {
	code, ok := Canonicalize("http://bad host/page?ref=TOLERANT-1")
	s.True(ok)
	s.Equal("TOLERANT-1", code)
}

func (s *CanonicalSuite) TestExtractReportsShape() {
	m, ok := Extract("https://lifecompass.app/r/USER-1")
	s.Require().True(ok)
	s.Equal(ShapePath, m.Shape)

	m, ok = Extract("https://lifecompass.app/?ref=LEGACY-1")
	s.Require().True(ok)
	s.Equal(ShapeLegacyQuery, m.Shape)

	m, ok = Extract("https://apps.example.com/app/lifecompass?ct=STORE-1")
	s.Require().True(ok)
	s.Equal(ShapeStoreQuery, m.Shape)
}
