package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Generate flags
	genPath        string
	genIgnore      []string
	genDocsIgnore  []string
	genOutput      string
	genDelimiter   string
	genLanguage    string
	genDocsOnly    bool
	genNoGitignore bool
	genShowHidden  bool
	genMaxSize     int64
	genDisplayOut  bool
	genLinkDepth   int

	// Output destinations
	printToStdout   bool
	copyToClipboard bool
	pdfOutputFile   string

	// Token counting
	countTokens    bool
	tokenizerType  string
	tokenizerModel string
	tokenizerFile  string
	numThreads     int

	// Interactive mode
	interactiveMode bool

	// Inject flags
	injectInput  string
	injectPath   string
	injectDryRun bool
	injectBackup bool
	injectDelim  string
)

// version is the application version, set via ldflags.
var version = "dev"

// languageRegistry is the process-wide profile table, built once at
// startup and read-only afterwards.
var languageRegistry *LanguageRegistry

var rootCmd = &cobra.Command{
	Use:   "prmpt [config]",
	Short: "prmpt converts a repository into an LLM prompt and injects model output back into files.",
	Long: `prmpt renders a directory tree (or a git/web URL) into a single fenced
text document for pasting into a Large Language Model, and parses model
output back into per-file writes.

Run without arguments to execute the "base" configuration from prmpt.yaml,
or pass a configuration name to run that one.`,
	Version: version,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := defaultConfigName
		if len(args) == 1 {
			name = args[0]
		}
		if reservedNames[name] {
			return fmt.Errorf("%q is a reserved word and cannot be used as a configuration name", name)
		}

		configs, err := loadConfigs(configFile)
		if err != nil {
			return err
		}
		cfg, ok := configs[name]
		if !ok {
			return fmt.Errorf("configuration %q not found in %s", name, configFile)
		}
		return runGenerate(cfg)
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate [path]",
	Short: "Render a repository, git URL or web URL into a prompt document.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := genPath
		if len(args) == 1 {
			path = args[0]
		}

		var useGitignore *bool
		if genNoGitignore {
			f := false
			useGitignore = &f
		}

		cfg := Config{
			Path:             path,
			Ignore:           genIgnore,
			Output:           genOutput,
			Delimiter:        viper.GetString("delimiter"),
			Language:         viper.GetString("language"),
			DocsCommentsOnly: genDocsOnly,
			DocsIgnore:       genDocsIgnore,
			UseGitignore:     useGitignore,
			DisplayOutputs:   genDisplayOut,
		}
		return runGenerate(cfg)
	},
}

var injectCmd = &cobra.Command{
	Use:   "inject",
	Short: "Parse model output and write the recovered files into a repository.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInject()
	},
}

// runGenerate executes one generate configuration end to end and routes
// the document to the configured destination.
func runGenerate(cfg Config) error {
	cfg.applyDefaults()

	// Bound keys resolve flag > environment > config file > default.
	doc, files, err := generateDocument(cfg, languageRegistry, GenerateOptions{
		ShowHidden:   viper.GetBool("hidden"),
		MaxSizeBytes: viper.GetInt64("max_size"),
		Interactive:  interactiveMode,
		LinkDepth:    genLinkDepth,
	})
	if err != nil {
		return err
	}
	if doc == "" && files == nil {
		return nil // interactive selection aborted
	}

	tokens := 0
	if countTokens {
		tk, err := newTokenizer(viper.GetString("tokenizer"), viper.GetString("model"), tokenizerFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: token counting disabled: %v\n", err)
		} else {
			defer tk.Close()
			counts := countFileTokens(tk, files, viper.GetInt("threads"))
			fmt.Fprint(os.Stderr, formatTokenReport(counts))
			for _, n := range counts {
				tokens += n
			}
		}
	}

	if pdfOutputFile != "" {
		if err := writePDF(files, rootNameFor(cfg.Path), pdfOutputFile); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved PDF to %s\n", pdfOutputFile)
	}

	switch {
	case printToStdout:
		fmt.Print(doc)
	case copyToClipboard:
		if err := clipboard.WriteAll(doc); err != nil {
			return fmt.Errorf("error writing to clipboard: %w", err)
		}
		fmt.Fprintln(os.Stderr, "Prompt copied to clipboard.")
	default:
		if err := os.WriteFile(cfg.Output, []byte(doc), 0o644); err != nil {
			return fmt.Errorf("error writing %s: %w", cfg.Output, err)
		}
		fmt.Fprintf(os.Stderr, "Prompt written to %s\n", cfg.Output)
	}

	summary := summarize(files, tokens)
	fmt.Fprintf(os.Stderr, "%d file(s), %d bytes", summary.TotalFiles, summary.TotalSize)
	if countTokens {
		fmt.Fprintf(os.Stderr, ", %d tokens", summary.TotalTokens)
	}
	fmt.Fprintln(os.Stderr)
	return nil
}

// runInject parses the input document and applies the recovered blocks
// under the target path, printing the patch report.
func runInject() error {
	f, err := os.Open(injectInput)
	if err != nil {
		return fmt.Errorf("error opening input %s: %w", injectInput, err)
	}
	defer f.Close()

	blocks, warnings, err := parseBlocks(f, injectDelim)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: line %d: %s\n", w.Line, w.Message)
	}
	if len(blocks) == 0 {
		return fmt.Errorf("no code blocks found in %s", injectInput)
	}

	policy := PolicyOverwrite
	switch {
	case injectDryRun:
		policy = PolicyDryRun
	case injectBackup:
		policy = PolicyBackup
	}

	report := applyBlocks(blocks, injectPath, policy)

	verb := "wrote"
	if report.DryRun {
		verb = "would write"
	}
	for _, p := range report.Written {
		fmt.Printf("%s %s\n", verb, filepath.Join(injectPath, p))
	}
	for _, fail := range report.Failed {
		fmt.Fprintf(os.Stderr, "failed %s: %s\n", fail.Path, fail.Reason)
	}
	if len(report.Failed) > 0 {
		return fmt.Errorf("%d block(s) failed to apply", len(report.Failed))
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)
	languageRegistry = newLanguageRegistry()

	generateCmd.Flags().StringVarP(&genPath, "path", "p", ".", "Path, git URL or web URL to generate from")
	generateCmd.Flags().StringSliceVarP(&genIgnore, "ignore", "i", nil, "Extra ignore patterns (gitignore syntax, repeatable)")
	generateCmd.Flags().StringSliceVar(&genDocsIgnore, "docs-ignore", nil, "Patterns exempt from docs-only extraction")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "Output file (default prmpt.out)")
	generateCmd.Flags().StringVar(&genDelimiter, "delimiter", defaultFence, "Code block fence token")
	generateCmd.Flags().StringVar(&genLanguage, "language", "", "Repository language; enables language default ignores and filtering")
	generateCmd.Flags().BoolVar(&genDocsOnly, "docs", false, "Extract documentation and comments only")
	generateCmd.Flags().BoolVar(&genNoGitignore, "no-gitignore", false, "Don't respect .gitignore")
	generateCmd.Flags().BoolVarP(&genShowHidden, "hidden", "H", false, "Include hidden files and directories")
	generateCmd.Flags().Int64VarP(&genMaxSize, "max-size", "s", 0, "Maximum file size in bytes (0 for no limit)")
	generateCmd.Flags().BoolVar(&genDisplayOut, "display-outputs", false, "Include notebook cell outputs")
	generateCmd.Flags().IntVar(&genLinkDepth, "link-depth", 0, "Follow same-origin links this deep for web URLs")
	generateCmd.Flags().BoolVar(&printToStdout, "stdout", false, "Print the document to stdout instead of a file")
	generateCmd.Flags().BoolVarP(&copyToClipboard, "clipboard", "c", false, "Copy the document to the clipboard instead of a file")
	generateCmd.Flags().StringVar(&pdfOutputFile, "pdf", "", "Also render the document as a PDF")
	generateCmd.Flags().BoolVar(&countTokens, "tokens", false, "Count tokens per file")
	generateCmd.Flags().StringVar(&tokenizerType, "tokenizer", "tiktoken", "Tokenizer: tiktoken or huggingface")
	generateCmd.Flags().StringVar(&tokenizerModel, "model", "", "Model name for the tokenizer (e.g. gpt-4o, gpt2)")
	generateCmd.Flags().StringVar(&tokenizerFile, "tokenizer-file", "", "Path to a local tokenizer file")
	generateCmd.Flags().IntVarP(&numThreads, "threads", "t", 0, "Worker count for token counting (0 for auto)")
	generateCmd.Flags().BoolVar(&interactiveMode, "interactive", false, "Pick files interactively before rendering")

	viper.BindPFlag("delimiter", generateCmd.Flags().Lookup("delimiter"))
	viper.BindPFlag("language", generateCmd.Flags().Lookup("language"))
	viper.BindPFlag("max_size", generateCmd.Flags().Lookup("max-size"))
	viper.BindPFlag("hidden", generateCmd.Flags().Lookup("hidden"))
	viper.BindPFlag("tokenizer", generateCmd.Flags().Lookup("tokenizer"))
	viper.BindPFlag("model", generateCmd.Flags().Lookup("model"))
	viper.BindPFlag("threads", generateCmd.Flags().Lookup("threads"))

	injectCmd.Flags().StringVarP(&injectInput, "input", "i", "prmpt.in", "File containing the model output to inject")
	injectCmd.Flags().StringVarP(&injectPath, "path", "p", ".", "Repository to inject into")
	injectCmd.Flags().BoolVar(&injectDryRun, "dry-run", false, "Report what would be written without touching files")
	injectCmd.Flags().BoolVar(&injectBackup, "backup", false, "Rename existing files to <name>.bak before overwriting")
	injectCmd.Flags().StringVar(&injectDelim, "delimiter", defaultFence, "Code block fence token to look for")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(injectCmd)
}

// initConfig reads in the viper config file and PRMPT_* environment
// variables. Named run configurations live in prmpt.yaml instead and are
// loaded per invocation.
func initConfig() {
	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "prmpt"))
	}
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.SetEnvPrefix("PRMPT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
