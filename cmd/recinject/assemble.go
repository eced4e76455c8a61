package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"impractical.co/recinject"
)

var (
	assembleOut      string
	assembleBaseURL  string
	assembleTemplate string
)

var assembleCmd = &cobra.Command{
	Use:   "assemble <page>",
	Short: "Assemble one page and write the result",
	Long: `Assemble one page and write the resulting HTML.

<page> is an http(s) URL or a local file. A local file is treated as opened
from file:// unless --base-url says where it is served from.`,
	Args: cobra.ExactArgs(1),
	RunE: runAssemble,
}

func init() {
	rootCmd.AddCommand(assembleCmd)
	assembleCmd.Flags().StringVarP(&assembleOut, "out", "o", "", "write to this file instead of stdout")
	assembleCmd.Flags().StringVar(&assembleBaseURL, "base-url", "", "URL the site is served from, for local pages")
	assembleCmd.Flags().StringVar(&assembleTemplate, "template", "", "shared template path, relative to the page")
}

func runAssemble(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	if cmd.Flags().Changed("base-url") {
		cfg.BaseURL = assembleBaseURL
	}
	if cmd.Flags().Changed("template") {
		cfg.TemplatePath = assembleTemplate
	}
	site := cfg.site()

	pageURL, markup, err := loadPage(ctx, site.HTTPClient(ctx), args[0], cfg.BaseURL)
	if err != nil {
		return err
	}
	page, err := recinject.ParsePage(pageURL, bytes.NewReader(markup))
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if assembleOut != "" {
		f, err := os.Create(assembleOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", assembleOut, err)
		}
		defer f.Close()
		out = f
	}
	return recinject.Render(ctx, out, site, page)
}

// loadPage returns the page's URL and markup. Remote pages are downloaded;
// local ones are read from disk and placed under baseURL when it's set.
func loadPage(ctx context.Context, client *http.Client, arg, baseURL string) (string, []byte, error) {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		text, err := recinject.Fetcher{Client: client}.Fetch(ctx, arg)
		if err != nil {
			return "", nil, fmt.Errorf("load page: %w", err)
		}
		return arg, []byte(text), nil
	}

	markup, err := os.ReadFile(arg)
	if err != nil {
		return "", nil, fmt.Errorf("load page: %w", err)
	}
	if baseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
		if err != nil {
			return "", nil, fmt.Errorf("parse base URL %q: %w", baseURL, err)
		}
		ref := &url.URL{Path: filepath.ToSlash(filepath.Base(arg))}
		return base.ResolveReference(ref).String(), markup, nil
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", nil, fmt.Errorf("resolve %s: %w", arg, err)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), markup, nil
}
