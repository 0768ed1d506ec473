package ops

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/chemstack/chemstack/pkg/catalog"
	"github.com/chemstack/chemstack/pkg/humanize"
	"github.com/morikuni/aec"
)

type UI struct {
	W io.Writer
}

func (u *UI) w() io.Writer {
	if u.W != nil {
		return u.W
	}

	return os.Stdout
}

func (u *UI) Building(pkg *catalog.Package) {
	fmt.Fprintf(u.w(), "Building %s %s (%s)...\n", pkg.Name, pkg.Version, pkg.Archive)
}

func (u *UI) Installed(name, prefix string) {
	fmt.Fprintf(u.w(), "%s %s -> %s\n", aec.GreenF.Apply("installed"), name, prefix)
}

func (u *UI) Failed(name string, err error) {
	fmt.Fprintf(u.w(), "%s %s: %s\n", aec.RedF.Apply("failed"), name, err)
}

func (u *UI) ArchiveMissing(name, archive string) {
	fmt.Fprintf(u.w(), "%s %s: archive %s not found\n", aec.RedF.Apply("failed"), name, archive)
}

func (u *UI) Unknown(token string) {
	fmt.Fprintf(u.w(), "%s unknown package: %s\n", aec.YellowF.Apply("warning"), token)
}

func (u *UI) Cleaned(name string, freed int64) {
	sz, unit := humanize.Size(freed)
	fmt.Fprintf(u.w(), "cleaned %s source tree (%.2f%s)\n", name, sz, unit)
}

func (u *UI) Summary(res *SetResult) {
	fmt.Fprintf(u.w(), "=> %d requested, %d installed, %d failed, %d unknown\n",
		len(res.Requested), len(res.Installed), len(res.Failed), len(res.Unknown))

	for _, name := range res.Failed {
		fmt.Fprintf(u.w(), "   %s %s\n", aec.RedF.Apply("failed:"), name)
	}
}

type uiMarker struct{}

func WithUI(ctx context.Context, ui *UI) context.Context {
	return context.WithValue(ctx, uiMarker{}, ui)
}

func GetUI(ctx context.Context) *UI {
	v := ctx.Value(uiMarker{})
	if v == nil {
		return &UI{}
	}

	return v.(*UI)
}
