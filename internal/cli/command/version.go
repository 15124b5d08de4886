package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/exitguard/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print build information",
		Action: func(c *cli.Context) error {
			return render(c, versionInfo(buildinfo.Get()))
		},
	}
}

type versionInfo buildinfo.Info

func (v versionInfo) Headers() []string {
	return []string{"VERSION", "COMMIT", "BUILT", "GO"}
}

func (v versionInfo) Rows() [][]string {
	return [][]string{{v.Version, v.Commit, v.BuildTime, v.GoVersion}}
}
