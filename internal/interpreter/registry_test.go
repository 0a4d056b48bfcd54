package interpreter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryByName(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()

	i, err := r.ByName("python")
	require.NoError(t, err)
	require.Equal(t, "python3", i.Binary)

	_, err = r.ByName("fortran")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegistryForScript(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()

	tests := []struct {
		name    string
		script  string
		want    string
		wantErr bool
	}{
		{name: "python script", script: "/tmp/hello.py", want: "python"},
		{name: "shell script", script: "setup.sh", want: "sh"},
		{name: "case insensitive extension", script: "HELLO.PY", want: "python"},
		{name: "unknown extension", script: "prog.f90", wantErr: true},
		{name: "no extension", script: "README", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			i, err := r.ForScript(tt.script)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNotFound)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, i.Name)
		})
	}
}

func TestRegistryRegisterReplaces(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	r.Register(Interpreter{Name: "python", Binary: "python3.13"})

	i, err := r.ByName("python")
	require.NoError(t, err)
	require.Equal(t, "python3.13", i.Binary)
	require.Len(t, r.Names(), len(DefaultRegistry().Names()))
}

func TestCommandArgs(t *testing.T) {
	t.Parallel()

	i := Interpreter{Name: "python", Binary: "python3", Args: []string{"-u"}}
	require.Equal(t, []string{"-u"}, i.CommandArgs(""))
	require.Equal(t, []string{"-u", "/s/a.py"}, i.CommandArgs("/s/a.py"))

	// Appending a script must not mutate the registered args.
	require.Equal(t, []string{"-u"}, i.Args)
}

func TestProcessKillIdempotent(t *testing.T) {
	t.Parallel()

	p, err := Start(Interpreter{Name: "sh", Binary: "sh"}, "", t.TempDir(), 24, 80, &EnvFacade{})
	require.NoError(t, err)

	p.Kill()
	require.True(t, p.Killed())

	// Repeated kills on an already-terminated process are no-ops.
	p.Kill()
	p.Kill()
	require.True(t, p.Killed())
}

func TestStartUnknownBinary(t *testing.T) {
	t.Parallel()

	_, err := Start(Interpreter{Name: "bogus", Binary: "definitely-not-a-binary-xyz"}, "", "", 24, 80, &EnvFacade{})
	require.Error(t, err)
}
