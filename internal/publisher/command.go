package publisher

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitprops/internal/gitrepo"
	"github.com/temirov/gitprops/internal/identity"
	"github.com/temirov/gitprops/internal/properties"
	flagutils "github.com/temirov/gitprops/internal/utils/flags"
	pathutils "github.com/temirov/gitprops/internal/utils/path"
)

const (
	commandUseNameConstant          = "parse"
	commandUsageTemplateConstant    = commandUseNameConstant + " [repository-path]"
	commandShortDescriptionConstant = "Publish git branch, author, and commit properties"
	commandLongDescriptionConstant  = "parse reads the repository once, collects the distinct authors reachable from every branch and tag, resolves the commit HEAD points at, and publishes the results as git.branch.* and git.commit.last.* build properties. Failures are logged and do not fail the command unless --fail-on-error is set."
	commandExampleConstant          = "gitprops parse ~/Development/service --output build/git.properties"

	repositoryFlagNameConstant      = "repository"
	repositoryFlagUsageConstant     = "Path to the repository working directory."
	outputFlagNameConstant          = "output"
	outputFlagUsageConstant         = "Write properties to this file instead of standard output. Existing .properties files are merged."
	formatFlagNameConstant          = "format"
	formatFlagDescriptionConstant   = "Output format."
	equalityFlagNameConstant        = "equality-policy"
	equalityFlagDescriptionConstant = "Rule deciding when two commit authors are the same person."
	searchParentsFlagNameConstant   = "search-parents"
	searchParentsFlagUsageConstant  = "Look for the repository in parent directories."
	failOnErrorFlagNameConstant     = "fail-on-error"
	failOnErrorFlagUsageConstant    = "Return publication failures instead of logging them."

	outputWriteErrorTemplateConstant     = "failed to write %s: %w"
	outputDirectoryErrorTemplateConstant = "failed to create directory for %s: %w"
	outputFilePermissionsConstant        = 0o644
	outputDirectoryPermissionsConstant   = 0o755
	propertiesWrittenMessageConstant     = "git properties written"
	logFieldOutputPathConstant           = "output_path"
	logFieldFormatConstant               = "format"
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the parse command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	Opener                RepositoryOpener
	HomeExpander          *pathutils.HomeExpander
}

// Build constructs the parse command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUsageTemplateConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		Args:    cobra.MaximumNArgs(1),
		RunE:    builder.run,
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().String(repositoryFlagNameConstant, defaults.RepositoryPath, repositoryFlagUsageConstant)
	command.Flags().String(outputFlagNameConstant, defaults.OutputPath, outputFlagUsageConstant)
	command.Flags().String(formatFlagNameConstant, defaults.Format, flagutils.FormatChoiceUsage(defaults.Format, []string{
		string(properties.FormatProperties),
		string(properties.FormatYAML),
		string(properties.FormatJSON),
		string(properties.FormatTable),
	}, formatFlagDescriptionConstant))
	command.Flags().String(equalityFlagNameConstant, defaults.EqualityPolicy, flagutils.FormatChoiceUsage(defaults.EqualityPolicy, []string{
		string(identity.EqualityPolicyEmail),
		string(identity.EqualityPolicyEmailOrName),
	}, equalityFlagDescriptionConstant))
	command.Flags().Bool(searchParentsFlagNameConstant, defaults.SearchParents, searchParentsFlagUsageConstant)
	command.Flags().Bool(failOnErrorFlagNameConstant, defaults.FailOnError, failOnErrorFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.applyFlagOverrides(command, arguments, builder.resolveConfiguration())
	logger := builder.resolveLogger()
	service, serviceError := NewService(Dependencies{
		Opener: builder.resolveOpener(configuration, logger),
		Logger: logger,
	})
	if serviceError != nil {
		return serviceError
	}

	repositoryPath := builder.expandPath(configuration.RepositoryPath)
	outputPath := builder.expandPath(configuration.OutputPath)

	return RunWithPolicy(HostPolicyFor(configuration.FailOnError), logger, func() error {
		format, formatError := properties.ParseFormat(configuration.Format)
		if formatError != nil {
			return newError(ErrorKindMissingContext, repositoryPath, formatError)
		}
		equalityPolicy, policyError := identity.ParseEqualityPolicy(configuration.EqualityPolicy)
		if policyError != nil {
			return newError(ErrorKindMissingContext, repositoryPath, policyError)
		}

		if len(outputPath) > 0 && format == properties.FormatProperties {
			document, loadError := properties.LoadDocument(outputPath)
			if loadError != nil {
				return newError(ErrorKindMissingContext, repositoryPath, loadError)
			}
			if _, publishError := service.Publish(command.Context(), Options{RepositoryPath: repositoryPath, EqualityPolicy: equalityPolicy}, document); publishError != nil {
				return publishError
			}
			if saveError := document.Save(); saveError != nil {
				return newError(ErrorKindPropertyWrite, repositoryPath, saveError)
			}
			logger.Info(propertiesWrittenMessageConstant, zap.String(logFieldOutputPathConstant, outputPath), zap.String(logFieldFormatConstant, string(format)))
			return nil
		}

		report, publishError := service.Publish(command.Context(), Options{RepositoryPath: repositoryPath, EqualityPolicy: equalityPolicy}, properties.NewMapStore())
		if publishError != nil {
			return publishError
		}
		if len(outputPath) == 0 {
			return properties.Encode(command.OutOrStdout(), format, report.Entries())
		}
		if writeError := writeEncodedFile(outputPath, format, report.Entries()); writeError != nil {
			return newError(ErrorKindPropertyWrite, report.RepositoryPath, writeError)
		}
		logger.Info(propertiesWrittenMessageConstant, zap.String(logFieldOutputPathConstant, outputPath), zap.String(logFieldFormatConstant, string(format)))
		return nil
	})
}

func (builder *CommandBuilder) applyFlagOverrides(command *cobra.Command, arguments []string, configuration CommandConfiguration) CommandConfiguration {
	updated := configuration
	flagSet := command.Flags()

	if flagSet.Changed(repositoryFlagNameConstant) {
		updated.RepositoryPath, _ = flagSet.GetString(repositoryFlagNameConstant)
	}
	if len(arguments) > 0 && len(strings.TrimSpace(arguments[0])) > 0 {
		updated.RepositoryPath = arguments[0]
	}
	if flagSet.Changed(outputFlagNameConstant) {
		updated.OutputPath, _ = flagSet.GetString(outputFlagNameConstant)
	}
	if flagSet.Changed(formatFlagNameConstant) {
		updated.Format, _ = flagSet.GetString(formatFlagNameConstant)
	}
	if flagSet.Changed(equalityFlagNameConstant) {
		updated.EqualityPolicy, _ = flagSet.GetString(equalityFlagNameConstant)
	}
	if flagSet.Changed(searchParentsFlagNameConstant) {
		updated.SearchParents, _ = flagSet.GetBool(searchParentsFlagNameConstant)
	}
	if flagSet.Changed(failOnErrorFlagNameConstant) {
		updated.FailOnError, _ = flagSet.GetBool(failOnErrorFlagNameConstant)
	}

	return updated.Sanitize()
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveOpener(configuration CommandConfiguration, logger *zap.Logger) RepositoryOpener {
	if builder.Opener != nil {
		return builder.Opener
	}
	return gitrepo.Opener{DetectParentRepository: configuration.SearchParents, Logger: logger}
}

func (builder *CommandBuilder) expandPath(candidatePath string) string {
	expander := builder.HomeExpander
	if expander == nil {
		expander = pathutils.NewHomeExpander()
	}
	return expander.Expand(strings.TrimSpace(candidatePath))
}

func writeEncodedFile(outputPath string, format properties.Format, entries []properties.Entry) error {
	var buffer bytes.Buffer
	if encodeError := properties.Encode(&buffer, format, entries); encodeError != nil {
		return encodeError
	}
	if mkdirError := os.MkdirAll(filepath.Dir(outputPath), outputDirectoryPermissionsConstant); mkdirError != nil {
		return fmt.Errorf(outputDirectoryErrorTemplateConstant, outputPath, mkdirError)
	}
	if writeError := os.WriteFile(outputPath, buffer.Bytes(), outputFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(outputWriteErrorTemplateConstant, outputPath, writeError)
	}
	return nil
}
