package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dooshek/mstts/internal/fileops"
	"github.com/dooshek/mstts/internal/logger"
	"github.com/dooshek/mstts/internal/tts"
	"github.com/dooshek/mstts/internal/types"
	"github.com/fatih/color"
)

// ErrWizardCancelled is returned when the user declines to save
var ErrWizardCancelled = errors.New("configuration not saved")

// Wizard asks for platform settings interactively and saves them
type Wizard struct {
	in      *bufio.Reader
	out     io.Writer
	fileOps fileops.FileOps

	bold   *color.Color
	cyan   *color.Color
	green  *color.Color
	yellow *color.Color
}

// NewWizard creates a wizard reading answers from in and prompting on out
func NewWizard(in io.Reader, out io.Writer, fileOps fileops.FileOps) *Wizard {
	return &Wizard{
		in:      bufio.NewReader(in),
		out:     out,
		fileOps: fileOps,
		bold:    color.New(color.Bold),
		cyan:    color.New(color.FgCyan),
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow),
	}
}

// RunWizard runs the wizard on the terminal against ~/.config/mstts
func RunWizard() error {
	fileOps, err := fileops.NewDefaultFileOps()
	if err != nil {
		return fmt.Errorf("failed to initialize file operations: %w", err)
	}
	if err := fileOps.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	_, err = NewWizard(os.Stdin, os.Stdout, fileOps).Run()
	return err
}

// Run asks every question, saves the answers and returns the saved config
func (w *Wizard) Run() (*types.Config, error) {
	w.bold.Fprintln(w.out, "\n🔊  Welcome to mstts Configuration Wizard!")
	fmt.Fprintln(w.out, "\nThis wizard will help you set up your text-to-speech platform.")

	config := Defaults()

	for {
		platform, err := w.askChoice("Platform", string(config.TTS.Platform), []string{
			string(types.PlatformMicrosoft),
			string(types.PlatformOpenAI),
			string(types.PlatformOpenAIRealtime),
		})
		if err != nil {
			return nil, err
		}
		config.TTS.Platform = types.Platform(platform)

		if config.TTS.Platform == types.PlatformMicrosoft {
			err = w.askMicrosoft(&config.TTS.Microsoft)
		} else {
			err = w.askOpenAI(&config.TTS.OpenAI)
		}
		if err != nil {
			return nil, err
		}

		if err := Validate(config); err != nil {
			w.yellow.Fprintf(w.out, "\n%v\n", err)
			fmt.Fprintln(w.out, "OK, let's try again.")
			continue
		}

		confirm, err := w.ask("\nDo you want to save this configuration? [Y/n]", "")
		if err != nil {
			return nil, err
		}
		confirm = strings.ToLower(confirm)
		if confirm != "" && confirm != "y" && confirm != "yes" {
			return nil, ErrWizardCancelled
		}

		if err := SaveConfigTo(w.fileOps, config); err != nil {
			logger.Error("Failed to save config", err)
			return nil, err
		}

		w.green.Fprintln(w.out, "\n✅ Configuration saved successfully!")
		fmt.Fprintf(w.out, "Default platform is: %s\n", config.TTS.Platform)
		return config, nil
	}
}

func (w *Wizard) askMicrosoft(ms *types.MicrosoftConfig) error {
	var err error
	if ms.APIKey, err = w.askRequired("Microsoft Cognitive Services API key"); err != nil {
		return err
	}
	if ms.Region, err = w.ask("Region", ms.Region); err != nil {
		return err
	}
	if ms.Language, err = w.askChoice("Language", ms.Language, tts.SupportedLanguages()); err != nil {
		return err
	}
	if ms.Gender, err = w.askChoice("Gender", ms.Gender, types.Genders); err != nil {
		return err
	}
	if ms.Type, err = w.ask("Voice type", ms.Type); err != nil {
		return err
	}
	if ms.Rate, err = w.askPercent("Rate", ms.Rate); err != nil {
		return err
	}
	if ms.Volume, err = w.askPercent("Volume", ms.Volume); err != nil {
		return err
	}
	return nil
}

func (w *Wizard) askOpenAI(oa *types.OpenAIConfig) error {
	var err error
	if oa.APIKey, err = w.askRequired("OpenAI API key"); err != nil {
		return err
	}
	if oa.Voice, err = w.ask("Voice", oa.Voice); err != nil {
		return err
	}
	if oa.Language, err = w.askChoice("Language", oa.Language, tts.SupportedLanguages()); err != nil {
		return err
	}
	return nil
}

// ask prints a prompt and returns the cleaned answer or def when empty
func (w *Wizard) ask(prompt, def string) (string, error) {
	if def != "" {
		w.cyan.Fprintf(w.out, "%s [%s]: ", prompt, def)
	} else {
		w.cyan.Fprintf(w.out, "%s: ", prompt)
	}

	response, err := w.in.ReadString('\n')
	if err != nil && (err != io.EOF || response == "") {
		logger.Error("Failed to read input", err)
		return "", err
	}

	response = cleanResponse(response)
	if response == "" {
		return def, nil
	}
	return response, nil
}

func (w *Wizard) askRequired(prompt string) (string, error) {
	for {
		answer, err := w.ask(prompt, "")
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		w.yellow.Fprintln(w.out, "A value is required.")
	}
}

func (w *Wizard) askChoice(prompt, def string, choices []string) (string, error) {
	for {
		answer, err := w.ask(prompt, def)
		if err != nil {
			return "", err
		}
		for _, c := range choices {
			if c == answer {
				return answer, nil
			}
		}
		w.yellow.Fprintf(w.out, "Choose one of: %s\n", strings.Join(choices, ", "))
	}
}

func (w *Wizard) askPercent(prompt string, def int) (int, error) {
	for {
		answer, err := w.ask(prompt+" (-100..100)", strconv.Itoa(def))
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= percentMin && n <= percentMax {
			return n, nil
		}
		w.yellow.Fprintln(w.out, "Enter a whole number between -100 and 100.")
	}
}

// cleanResponse trims whitespace and strips ASCII control characters
func cleanResponse(response string) string {
	response = strings.TrimSpace(response)
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, response)
}
