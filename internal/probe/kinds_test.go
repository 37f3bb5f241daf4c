package probe

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startDNSServer starts an in-process UDP DNS server that answers every
// query with the given rcode.
func startDNSServer(t *testing.T, rcode int) string {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	handler := func(w dns.ResponseWriter, req *dns.Msg) {
		m := new(dns.Msg)
		m.SetRcode(req, rcode)
		if rcode == dns.RcodeSuccess {
			rr, err := dns.NewRR(req.Question[0].Name + " 60 IN A 192.0.2.10")
			if err == nil {
				m.Answer = append(m.Answer, rr)
			}
		}
		_ = w.WriteMsg(m)
	}

	srv := &dns.Server{PacketConn: pc, Handler: dns.HandlerFunc(handler)}
	go func() { _ = srv.ActivateAndServe() }()
	t.Cleanup(func() { _ = srv.Shutdown() })
	return pc.LocalAddr().String()
}

func TestCreate_Sleep(t *testing.T) {
	work, err := Create(KindSleep, map[string]any{"duration": "2ms"})
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, work())
	assert.GreaterOrEqual(t, time.Since(start), 2*time.Millisecond)
}

func TestCreate_SleepNoParams(t *testing.T) {
	work, err := Create(KindSleep, nil)
	require.NoError(t, err)
	require.NoError(t, work())
}

func TestCreate_Alloc(t *testing.T) {
	work, err := Create(KindAlloc, map[string]any{"items": 1000, "bytes": 102400, "duration": "1ms"})
	require.NoError(t, err)
	require.NoError(t, work())
}

func TestCreate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		params map[string]any
		errMsg string
	}{
		{"unknown kind", "psutil", nil, `unknown probe kind "psutil"`},
		{"bad duration", KindSleep, map[string]any{"duration": "soon"}, "sleep probe"},
		{"unused key", KindSleep, map[string]any{"duraton": "1ms"}, "duraton"},
		{"negative alloc", KindAlloc, map[string]any{"items": -1}, "must not be negative"},
		{"http without url", KindHTTP, map[string]any{}, "url is required"},
		{"dns without server", KindDNS, map[string]any{"name": "example.com"}, "server is required"},
		{"dns without name", KindDNS, map[string]any{"server": "127.0.0.1:53"}, "name is required"},
		{"dns bad type", KindDNS, map[string]any{"server": "127.0.0.1:53", "name": "x", "type": "BOGUS"}, "unsupported query type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Create(tt.kind, tt.params)
			require.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestCreate_UnknownKindIsSentinel(t *testing.T) {
	_, err := Create("gpu", nil)
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestHTTPProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte("hello"))
		case "/created":
			w.WriteHeader(http.StatusCreated)
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	t.Run("default status", func(t *testing.T) {
		work, err := Create(KindHTTP, map[string]any{"url": srv.URL + "/ok"})
		require.NoError(t, err)
		require.NoError(t, work())
	})

	t.Run("expected status", func(t *testing.T) {
		work, err := Create(KindHTTP, map[string]any{
			"url":           srv.URL + "/created",
			"method":        "post",
			"expect_status": 201,
			"timeout":       "2s",
		})
		require.NoError(t, err)
		require.NoError(t, work())
	})

	t.Run("unexpected status", func(t *testing.T) {
		work, err := Create(KindHTTP, map[string]any{"url": srv.URL + "/down"})
		require.NoError(t, err)
		require.ErrorContains(t, work(), "got status 503, want 200")
	})
}

func TestHTTPProbe_RunnerRecordsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	work, err := NewHTTP(HTTPArgs{URL: srv.URL})
	require.NoError(t, err)

	s := NewRunner(WithSampler(RuntimeSampler{})).Run("Network_CDNResponse", work)
	assert.False(t, s.Success)
	assert.Contains(t, s.Error, "got status 500")
}

func TestDNSProbe(t *testing.T) {
	t.Run("noerror", func(t *testing.T) {
		addr := startDNSServer(t, dns.RcodeSuccess)
		work, err := Create(KindDNS, map[string]any{"server": addr, "name": "cdn.example.com", "timeout": "2s"})
		require.NoError(t, err)
		require.NoError(t, work())
	})

	t.Run("nxdomain", func(t *testing.T) {
		addr := startDNSServer(t, dns.RcodeNameError)
		work, err := Create(KindDNS, map[string]any{"server": addr, "name": "missing.example.com", "type": "aaaa"})
		require.NoError(t, err)
		require.ErrorContains(t, work(), "rcode NXDOMAIN")
	})
}
