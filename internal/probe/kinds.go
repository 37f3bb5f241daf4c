package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/miekg/dns"
)

// Kind names a probe body implementation that can be built from config.
type Kind string

const (
	KindSleep Kind = "sleep"
	KindAlloc Kind = "alloc"
	KindHTTP  Kind = "http"
	KindDNS   Kind = "dns"
)

// ErrUnknownKind is returned by Create for unrecognized kinds.
var ErrUnknownKind = errors.New("unknown probe kind")

// Kinds lists every supported kind.
func Kinds() []Kind {
	return []Kind{KindSleep, KindAlloc, KindHTTP, KindDNS}
}

const (
	defaultHTTPTimeout = 5 * time.Second
	defaultDNSTimeout  = 3 * time.Second
)

// Create builds a probe body from a kind and its config parameters.
func Create(kind Kind, params map[string]any) (Work, error) {
	switch kind {
	case KindSleep:
		var v struct {
			Duration time.Duration `mapstructure:"duration"`
		}
		if err := decode(params, &v); err != nil {
			return nil, fmt.Errorf("%s probe: %w", kind, err)
		}
		return Sleep(v.Duration), nil
	case KindAlloc:
		var v struct {
			Items    int           `mapstructure:"items"`
			Bytes    int           `mapstructure:"bytes"`
			Duration time.Duration `mapstructure:"duration"`
		}
		if err := decode(params, &v); err != nil {
			return nil, fmt.Errorf("%s probe: %w", kind, err)
		}
		if v.Items < 0 || v.Bytes < 0 {
			return nil, fmt.Errorf("%s probe: items and bytes must not be negative", kind)
		}
		return Alloc(v.Items, v.Bytes, v.Duration), nil
	case KindHTTP:
		var v struct {
			URL          string        `mapstructure:"url"`
			Method       string        `mapstructure:"method"`
			Timeout      time.Duration `mapstructure:"timeout"`
			ExpectStatus int           `mapstructure:"expect_status"`
		}
		if err := decode(params, &v); err != nil {
			return nil, fmt.Errorf("%s probe: %w", kind, err)
		}
		return NewHTTP(HTTPArgs{
			URL:          v.URL,
			Method:       v.Method,
			Timeout:      v.Timeout,
			ExpectStatus: v.ExpectStatus,
		})
	case KindDNS:
		var v struct {
			Server  string        `mapstructure:"server"`
			Name    string        `mapstructure:"name"`
			Type    string        `mapstructure:"type"`
			Timeout time.Duration `mapstructure:"timeout"`
		}
		if err := decode(params, &v); err != nil {
			return nil, fmt.Errorf("%s probe: %w", kind, err)
		}
		return NewDNS(DNSArgs{
			Server:  v.Server,
			Name:    v.Name,
			Type:    v.Type,
			Timeout: v.Timeout,
		})
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}
}

func decode(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(params)
}

// Sleep returns a body that sleeps for d.
func Sleep(d time.Duration) Work {
	return func() error {
		time.Sleep(d)
		return nil
	}
}

// Alloc returns a body that sleeps for d, then allocates items small strings
// and a buffer of n bytes.
func Alloc(items, n int, d time.Duration) Work {
	return func() error {
		time.Sleep(d)

		held := make([]string, items)
		for i := range held {
			held[i] = fmt.Sprintf("item_%d", i)
		}
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = byte(i)
		}

		runtime.KeepAlive(held)
		runtime.KeepAlive(buf)
		return nil
	}
}

// HTTPArgs configures an HTTP probe.
type HTTPArgs struct {
	URL          string
	Method       string
	Timeout      time.Duration
	ExpectStatus int

	// Client defaults to a client with no timeout of its own; Timeout is
	// applied per request.
	Client *http.Client
}

// NewHTTP returns a body that issues one request per iteration and fails on
// transport errors or an unexpected status.
func NewHTTP(args HTTPArgs) (Work, error) {
	if args.URL == "" {
		return nil, errors.New("http probe: url is required")
	}
	if args.Method == "" {
		args.Method = http.MethodGet
	}
	args.Method = strings.ToUpper(args.Method)
	if args.Timeout <= 0 {
		args.Timeout = defaultHTTPTimeout
	}
	if args.ExpectStatus == 0 {
		args.ExpectStatus = http.StatusOK
	}
	if args.Client == nil {
		args.Client = &http.Client{}
	}

	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), args.Timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, args.Method, args.URL, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		resp, err := args.Client.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			return fmt.Errorf("reading response: %w", err)
		}
		if resp.StatusCode != args.ExpectStatus {
			return fmt.Errorf("%s %s: got status %d, want %d", args.Method, args.URL, resp.StatusCode, args.ExpectStatus)
		}
		return nil
	}, nil
}

// DNSArgs configures a DNS probe.
type DNSArgs struct {
	Server  string
	Name    string
	Type    string
	Timeout time.Duration
}

// NewDNS returns a body that resolves Name against Server once per
// iteration and fails unless the answer has rcode NOERROR.
func NewDNS(args DNSArgs) (Work, error) {
	if args.Server == "" {
		return nil, errors.New("dns probe: server is required")
	}
	if args.Name == "" {
		return nil, errors.New("dns probe: name is required")
	}
	if args.Type == "" {
		args.Type = "A"
	}
	qtype, ok := dns.StringToType[strings.ToUpper(args.Type)]
	if !ok {
		return nil, fmt.Errorf("dns probe: unsupported query type %q", args.Type)
	}
	if args.Timeout <= 0 {
		args.Timeout = defaultDNSTimeout
	}

	client := &dns.Client{Timeout: args.Timeout}

	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), args.Timeout)
		defer cancel()

		msg := new(dns.Msg)
		msg.SetQuestion(dns.Fqdn(args.Name), qtype)
		msg.RecursionDesired = true

		resp, _, err := client.ExchangeContext(ctx, msg, args.Server)
		if err != nil {
			return fmt.Errorf("dns %s %s: %w", args.Type, args.Name, err)
		}
		if resp.Rcode != dns.RcodeSuccess {
			return fmt.Errorf("dns %s %s: rcode %s", args.Type, args.Name, dns.RcodeToString[resp.Rcode])
		}
		return nil
	}, nil
}
