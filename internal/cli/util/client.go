package util

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/codewandler/lrukv/adapters/httpapi"
)

func NewClient(flags *pflag.FlagSet) (*httpapi.Client, error) {
	addr, err := flags.GetString("addr")
	if err != nil {
		return nil, fmt.Errorf("invalid addr: %w", err)
	}
	timeout, err := flags.GetDuration("timeout")
	if err != nil {
		return nil, fmt.Errorf("invalid timeout: %w", err)
	}
	return httpapi.NewClient(httpapi.ClientOptions{BaseURL: addr, Timeout: timeout})
}
