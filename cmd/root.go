/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnvern/internal/iofs"
	"github.com/gnames/gnvern/internal/iologger"
	gnvern "github.com/gnames/gnvern/pkg"
	"github.com/gnames/gnvern/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir   string
	opts      []config.Option
	cfg       *config.Config
	logCloser io.Closer
)

// getRootCmd returns the root command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s",
			gnvern.Version, gnvern.Build),
		Use:   "gnvern",
		Short: "GNvern finds vernacular names for scientific names",
		Long: `GNvern resolves scientific names to their common (vernacular)
names in several languages.

Features:
  - Batch resolution with ranking of sources by priority,
    corroboration and recency
  - Genus fallback for species without their own vernacular names
  - Vernacular names of classes, orders and families
  - Coverage reports of name lists and master list datasets
  - Search of master list names by scientific or vernacular names
  - Schema Management of the PostgreSQL name store

Names come from a PostgreSQL database, a hosted SQL API or a local
SQLite snapshot, as set in ~/.config/gnvern/config.yaml.`,
		PersistentPreRunE:  bootstrap,
		PersistentPostRunE: teardown,
		RunE:               runRoot,
		SilenceErrors:      true,
		SilenceUsage:       true,
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.Flags().BoolP("version", "V", false, "version for gnvern")

	rootCmd.AddCommand(
		getResolveCmd(),
		getCoverageCmd(),
		getDatasetsCmd(),
		getSearchCmd(),
		getCreateCmd(),
		getMigrateCmd(),
	)
	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	logCloser, err = iologger.Init(config.LogDir(cfg.HomeDir), cfg.Log, false)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"store", cfg.Store.Type)

	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if logCloser != nil {
		return logCloser.Close()
	}
	return nil
}

func runRoot(cmd *cobra.Command, _ []string) error {
	versionFlag(cmd)
	return cmd.Help()
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Environment variables are bound one by one so it is clear which
	// of them are allowed. They match the fields of config.ToOptions().
	v.SetEnvPrefix("GNVERN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.host", "GNVERN_DATABASE_HOST")
	v.BindEnv("database.port", "GNVERN_DATABASE_PORT")
	v.BindEnv("database.user", "GNVERN_DATABASE_USER")
	v.BindEnv("database.password", "GNVERN_DATABASE_PASSWORD")
	v.BindEnv("database.database", "GNVERN_DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "GNVERN_DATABASE_SSL_MODE")

	// Store configuration
	v.BindEnv("store.type", "GNVERN_STORE_TYPE")
	v.BindEnv("store.url", "GNVERN_STORE_URL")
	v.BindEnv("store.api_key", "GNVERN_STORE_API_KEY")
	v.BindEnv("store.sqlite_path", "GNVERN_STORE_SQLITE_PATH")
	v.BindEnv("store.table", "GNVERN_STORE_TABLE")
	v.BindEnv("store.master_list_table", "GNVERN_STORE_MASTER_LIST_TABLE")
	v.BindEnv("store.timeout", "GNVERN_STORE_TIMEOUT")

	// Resolver configuration
	v.BindEnv("resolver.languages", "GNVERN_RESOLVER_LANGUAGES")
	v.BindEnv("resolver.chunk_size", "GNVERN_RESOLVER_CHUNK_SIZE")
	v.BindEnv("resolver.priority_min", "GNVERN_RESOLVER_PRIORITY_MIN")
	v.BindEnv("resolver.priority_max", "GNVERN_RESOLVER_PRIORITY_MAX")
	v.BindEnv("resolver.priority_default", "GNVERN_RESOLVER_PRIORITY_DEFAULT")
	v.BindEnv("resolver.lookup_genera", "GNVERN_RESOLVER_LOOKUP_GENERA")
	v.BindEnv("resolver.genus_on_empty_name",
		"GNVERN_RESOLVER_GENUS_ON_EMPTY_NAME")
	v.BindEnv("resolver.format_names", "GNVERN_RESOLVER_FORMAT_NAMES")

	// Log configuration
	v.BindEnv("log.level", "GNVERN_LOG_LEVEL")
	v.BindEnv("log.format", "GNVERN_LOG_FORMAT")
	v.BindEnv("log.destination", "GNVERN_LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "GNVERN_JOBS_NUMBER")

	v.AutomaticEnv()
}
