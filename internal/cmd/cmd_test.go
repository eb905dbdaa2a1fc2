// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestCmds(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		cmd                  *cobra.Command
		args                 []string
		expectedError        error
		expectedErrorMessage string
		expectedUsage        bool
		expectedOutput       string
	}{
		"emit command with no arguments returns no error and print usage": {
			cmd:           EmitCmd(),
			args:          []string{},
			expectedUsage: true,
		},
		"emit command with unknown level return error and usage": {
			cmd:                  EmitCmd(),
			args:                 []string{"--" + levelFlagName, "loud", "hello"},
			expectedUsage:        true,
			expectedError:        errInvalidLevel,
			expectedErrorMessage: errInvalidLevel.Error() + ": loud\n",
		},
		"emit command with silent level return error and usage": {
			cmd:                  EmitCmd(),
			args:                 []string{"--" + levelFlagName, "silent", "hello"},
			expectedUsage:        true,
			expectedError:        errInvalidLevel,
			expectedErrorMessage: errInvalidLevel.Error() + ": SILENT\n",
		},
		"emit command missing config, return error no usage": {
			cmd:                  EmitCmd(),
			args:                 []string{"--" + configPathFlagName, filepath.Join("testdata", "missing.yaml"), "hello"},
			expectedError:        os.ErrNotExist,
			expectedErrorMessage: "open " + filepath.Join("testdata", "missing.yaml") + ": no such file or directory\n",
		},
		"emit command prints on console and writer adapter": {
			cmd: EmitCmd(),
			args: []string{
				"--" + configPathFlagName, filepath.Join("testdata", "writer.yaml"),
				"--" + tagFlagName, "Checkout",
				"hello", "world",
			},
			expectedOutput: "[INFO ] [Checkout] hello world\n",
		},
		"config command with unknown output return error and usage": {
			cmd:                  ConfigCmd(),
			args:                 []string{"--" + outputFlagName, "toml"},
			expectedUsage:        true,
			expectedError:        errInvalidOutput,
			expectedErrorMessage: errInvalidOutput.Error() + ": toml\n",
		},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			t.Parallel()

			errBuffer := new(bytes.Buffer)
			outBuffer := new(bytes.Buffer)
			test.cmd.SetOut(outBuffer)
			test.cmd.SetErr(errBuffer)
			test.cmd.SetUsageTemplate("usage string")
			test.cmd.SetArgs(test.args)

			err := test.cmd.ExecuteContext(t.Context())
			if test.expectedError != nil {
				assert.ErrorIs(t, err, test.expectedError)
				assert.Equal(t, test.expectedErrorMessage, errBuffer.String())
			} else {
				assert.NoError(t, err)
				assert.Empty(t, errBuffer)
			}

			switch {
			case test.expectedUsage:
				assert.Equal(t, "usage string", outBuffer.String())
			case test.expectedOutput != "":
				assert.Contains(t, outBuffer.String(), test.expectedOutput)
			default:
				assert.Empty(t, outBuffer)
			}
		})
	}
}
