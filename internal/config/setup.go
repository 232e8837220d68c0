package config

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/execanything/xa/internal/core"
)

// ModelLister fetches the model ids available at an endpoint. It is injected
// by the caller so this package stays decoupled from the API client.
type ModelLister func(ctx context.Context, baseURL string, apiKey string) ([]string, error)

// Setup runs the interactive configuration flow: prompt for endpoint and key,
// validate the pair by listing models, let the user pick a default model, and
// persist the result.
func Setup(ctx context.Context, in io.Reader, out io.Writer, listModels ModelLister) error {
	fmt.Fprintln(out, "Setting up OpenAI-compatible configuration...")
	fmt.Fprintf(out, "This will write the config file at %s\n", core.ConfigFile())

	cfg, err := Load()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(in)

	fmt.Fprintf(out, "Base URL [%s]: ", cfg.BaseURL)
	baseURL, err := readLine(reader)
	if err != nil {
		return err
	}
	if baseURL == "" {
		baseURL = cfg.BaseURL
	}

	fmt.Fprint(out, "API Key: ")
	apiKey, err := readLine(reader)
	if err != nil {
		return err
	}

	model := cfg.Model()

	if apiKey != "" {
		fmt.Fprintln(out, "Validating API key and base URL...")
		models, listErr := listModels(ctx, baseURL, apiKey)
		if listErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not validate API key and base URL: %v\n", listErr)
			fmt.Fprintln(os.Stderr, "Proceeding with configuration, but the API may not work correctly.")
			model, err = askModelDirectly(reader, out, model)
			if err != nil {
				return err
			}
		} else {
			fmt.Fprintln(out, "API key and base URL are valid.")
			model, err = pickModel(reader, out, models, model)
			if err != nil {
				return err
			}
		}
	} else {
		model, err = askModelDirectly(reader, out, model)
		if err != nil {
			return err
		}
	}

	newCfg := &Config{
		BaseURL:      baseURL,
		APIKey:       apiKey,
		DefaultModel: model,
	}
	if err := newCfg.Save(); err != nil {
		return err
	}

	fmt.Fprintf(out, "Configuration saved to: %s\n", core.ConfigFile())
	fmt.Fprintln(out, "Setup complete! You can now use xa with your commands.")
	return nil
}

// pickModel presents a numbered list of models plus a custom-model option.
// An empty selection keeps the current default.
func pickModel(reader *bufio.Reader, out io.Writer, models []string, current string) (string, error) {
	fmt.Fprintln(out, "Available models:")
	for i, model := range models {
		fmt.Fprintf(out, "  %d. %s\n", i+1, model)
	}
	fmt.Fprintf(out, "  %d. Custom model\n", len(models)+1)

	fmt.Fprintf(out, "Select model by number (or press Enter for default '%s'): ", current)
	selection, err := readLine(reader)
	if err != nil {
		return "", err
	}

	if selection == "" {
		return current, nil
	}

	num, err := strconv.Atoi(selection)
	if err != nil || num < 1 || num > len(models)+1 {
		fmt.Fprintln(os.Stderr, "Invalid selection. Using default model.")
		return current, nil
	}

	if num <= len(models) {
		return models[num-1], nil
	}

	fmt.Fprint(out, "Enter custom model name: ")
	custom, err := readLine(reader)
	if err != nil {
		return "", err
	}
	if custom == "" {
		return current, nil
	}
	return custom, nil
}

func askModelDirectly(reader *bufio.Reader, out io.Writer, current string) (string, error) {
	fmt.Fprintf(out, "Default model [%s]: ", current)
	model, err := readLine(reader)
	if err != nil {
		return "", err
	}
	if model == "" {
		return current, nil
	}
	return model, nil
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
