package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/epicsdb"
	"github.com/npillmayer/epicsdb/macro"
	"github.com/npillmayer/epicsdb/params"
	"github.com/npillmayer/epicsdb/parser"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dbtool",
	Short: "Work with EPICS database and substitution files",
	Long: `Welcome to dbtool V0.1 (experimental)

dbtool reads EPICS database (".db", ".template") and substitution files.
It can expand macros, resolve include directives, print the resulting
record set in canonical form, and generate asyn parameter definitions
from templates.

`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called exactly once by dbtool.main().
func Execute() {
	if rootCmd.Execute() != nil {
		epicsdb.Exit(2)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	// persistent flags which will be global for the application
	rootCmd.PersistentFlags().String("logfile", "stderr", "URL of log output location")
	//
	parseCmd.Flags().StringP("macros", "m", "", "macro assignments, e.g. 'P=MTEST:,R=AO1'")
	parseCmd.Flags().StringArrayP("search-dir", "I", nil, "directory to resolve database file names against")
	parseCmd.Flags().Bool("strict-macros", false, "fail on unresolved macro references")
	parseCmd.Flags().String("encoding", "", "IANA name of the input character encoding")
	parseCmd.Flags().String("includes", "self", "include strategy: self|new|ignore")
	rootCmd.AddCommand(parseCmd)
	//
	substCmd.Flags().StringArrayP("search-dir", "I", nil, "directory to resolve template file names against")
	rootCmd.AddCommand(substCmd)
	//
	genparamsCmd.Flags().StringP("filename", "f", "", "base name for generated files")
	genparamsCmd.Flags().StringP("macros", "m", "", "macro assignments to apply to the template")
	genparamsCmd.Flags().StringP("prefix", "p", "", "keep only parameters starting with this prefix")
	rootCmd.AddCommand(genparamsCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse [flags] FILE...",
	Short: "Load database files and print their records",
	Args:  cobra.MinimumNArgs(1),
	Run:   runParseCmd,
}

var substCmd = &cobra.Command{
	Use:   "subst [flags] FILE...",
	Short: "Expand substitution files and print the resulting records",
	Args:  cobra.MinimumNArgs(1),
	Run:   runSubstCmd,
}

var genparamsCmd = &cobra.Command{
	Use:   "genparams [flags] INPUT OUTPUT",
	Short: "Generate asyn parameter definitions from templates",
	Long: `Generate asyn parameter definitions from EPICS DB templates.

INPUT is a template file or a directory containing template files; OUTPUT
is the directory to place the generated header and source files in.
Include directives in the templates are registered but not followed.
`,
	Args: cobra.ExactArgs(2),
	Run:  runGenparamsCmd,
}

func fail(err error) {
	tracer().Errorf(err.Error())
	fmt.Fprintf(os.Stderr, "dbtool: %s\n", err.Error())
	epicsdb.Exit(1)
}

func loadOptionsFromFlags(cmd *cobra.Command) parser.LoadOptions {
	opts := parser.LoadOptions{}
	if m, _ := cmd.Flags().GetString("macros"); m != "" {
		macros, err := macro.Split(m)
		if err != nil {
			fail(err)
		}
		opts.Macros = macros
	}
	opts.SearchPath, _ = cmd.Flags().GetStringArray("search-dir")
	opts.StrictMacros, _ = cmd.Flags().GetBool("strict-macros")
	opts.Encoding, _ = cmd.Flags().GetString("encoding")
	if s, _ := cmd.Flags().GetString("includes"); s != "" {
		strategy, err := includeStrategy(s)
		if err != nil {
			fail(err)
		}
		opts.Includes = strategy
	}
	return opts
}

func includeStrategy(name string) (parser.IncludeStrategy, error) {
	switch name {
	case "self":
		return parser.LoadIntoSelf, nil
	case "new":
		return parser.LoadIntoNew, nil
	case "ignore":
		return parser.IgnoreIncludes, nil
	}
	return 0, fmt.Errorf("unknown include strategy '%s' (want self|new|ignore)", name)
}

func runParseCmd(cmd *cobra.Command, args []string) {
	opts := loadOptionsFromFlags(cmd)
	for _, filename := range args {
		database, err := parser.LoadDatabaseFile(filename, opts)
		if err != nil {
			fail(err)
		}
		fmt.Println(database)
	}
}

func runSubstCmd(cmd *cobra.Command, args []string) {
	searchPath, _ := cmd.Flags().GetStringArray("search-dir")
	for _, filename := range args {
		subs, err := parser.LoadSubstitutionFile(filename)
		if err != nil {
			fail(err)
		}
		merged := epicsdb.NewDatabase()
		for _, sub := range subs {
			opts := parser.LoadOptions{
				Macros:     sub.MacroSet(),
				SearchPath: append(searchPath, filepath.Dir(filename)),
			}
			database, err := parser.LoadDatabaseFile(sub.File, opts)
			if err != nil {
				fail(err)
			}
			if err := merged.Merge(database); err != nil {
				fail(err)
			}
		}
		fmt.Println(merged)
	}
}

func runGenparamsCmd(cmd *cobra.Command, args []string) {
	inPath, outPath := args[0], args[1]
	templates := []string{inPath}
	if info, err := os.Stat(inPath); err == nil && info.IsDir() {
		entries, err := os.ReadDir(inPath)
		if err != nil {
			fail(err)
		}
		templates = templates[:0]
		for _, entry := range entries {
			if !entry.IsDir() && filepath.Ext(entry.Name()) == ".template" {
				templates = append(templates, filepath.Join(inPath, entry.Name()))
			}
		}
	}
	baseFlag, _ := cmd.Flags().GetString("filename")
	prefix, _ := cmd.Flags().GetString("prefix")
	var macros macro.Set
	if m, _ := cmd.Flags().GetString("macros"); m != "" {
		set, err := macro.Split(m)
		if err != nil {
			fail(err)
		}
		macros = set
	}
	for _, templateFile := range templates {
		baseName := baseFlag
		if baseName == "" {
			name := filepath.Base(templateFile)
			baseName = strings.TrimSuffix(name, filepath.Ext(name))
		}
		database, err := parser.LoadDatabaseFile(templateFile, parser.LoadOptions{
			Macros:   macros,
			Includes: parser.IgnoreIncludes,
		})
		if err != nil {
			fail(err)
		}
		defs, err := params.FromDatabase(database, baseName, prefix)
		if err != nil {
			fail(err)
		}
		for _, def := range defs {
			tracer().Infof("param: %s, type: %s, record: %s", def.Name, def.Type, def.RecordStr)
		}
		if err := params.WriteFiles(outPath, baseName, defs); err != nil {
			fail(err)
		}
	}
}
