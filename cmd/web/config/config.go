package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

var (
	RSDns ResolverStrategy = "dns"
	RSDoH ResolverStrategy = "doh"
)

func NewConfig(fileName string) (Config, error) {
	c := Config{}

	b, err := os.ReadFile(fileName)
	if err != nil {
		return c, fmt.Errorf("unable to open %q, reason: %w", fileName, err)
	}

	_, err = toml.Decode(string(b), &c)
	if err != nil {
		return c, fmt.Errorf("unable to unmarshal %q, reason: %w", fileName, err)
	}

	return c, nil
}

// Config holds central config parameters
type Config struct {
	Client struct {
		InputLengthMax uint64 `toml:"inputLengthMax"`
	} `toml:"client"`
	Server struct {
		ListenOn        string `toml:"listenOn"`
		ConnectionLimit uint   `toml:"connectionLimit"`
		CORS            struct {
			AllowedOrigins []string `toml:"allowedOrigins"`
			AllowedHeaders []string `toml:"allowedHeaders"`
		} `toml:"CORS"`
		Headers Headers `toml:"headers"`
		Log     struct {
			Level string `toml:"level"`
		} `toml:"log"`
	} `toml:"server"`
	Verifier struct {
		Strategy      ResolverStrategy `toml:"strategy"`
		Resolvers     []string         `toml:"resolvers"`
		DoHEndpoint   string           `toml:"dohEndpoint"`
		LookupTimeout Duration         `toml:"lookupTimeout"`
		Probe         struct {
			Enabled    bool     `toml:"enabled"`
			HeloDomain string   `toml:"heloDomain"`
			Sender     string   `toml:"sender"`
			Timeout    Duration `toml:"timeout"`
		} `toml:"probe"`
		Suggest struct {
			ReferenceDomains []string `toml:"referenceDomains"`
		} `toml:"suggest"`
	} `toml:"verifier"`
}

type Headers map[string]string

func (h Headers) String() string {
	var v string
	for header, value := range h {
		v += `"` + header + `:` + value + `",`
	}

	if len(v) > 0 {
		v = v[0 : len(v)-1]
	}

	return v
}

func (h *Headers) Set(v string) error {
	s := strings.SplitN(v, `:`, 2)
	if len(s) != 2 {
		return fmt.Errorf("invalid Header argument %q, expecting <header name>:<header value>", v)
	}

	if *h == nil {
		*h = make(map[string]string, 1)
	}

	(*h)[s[0]] = s[1]

	return nil
}

type ResolverStrategy string

func (rs ResolverStrategy) String() string {
	return string(rs)
}

func (rs *ResolverStrategy) UnmarshalText(value []byte) error {
	v := string(value)
	switch ResolverStrategy(v) {
	case RSDns, RSDoH:
		*rs = ResolverStrategy(v)
		return nil
	}

	return fmt.Errorf("unsupported resolver strategy %q", v)
}

// Duration is a time.Duration which supports the TOML text format
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(value []byte) error {
	parsed, err := time.ParseDuration(string(value))
	if err != nil {
		return err
	}

	d.Duration = parsed
	return nil
}

func (d Duration) AsDuration() time.Duration {
	return d.Duration
}
