package mediator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequiredAndDefaults(t *testing.T) {
	op := &Operation{
		Name: "test",
		Args: []ArgSpec{
			{Name: "name", Type: "string", Required: true},
			{Name: "color", Type: "string", Default: "Blue"},
		},
	}

	tests := []struct {
		name     string
		raw      Args
		wantRule string
	}{
		{
			name:     "missing required",
			raw:      Args{},
			wantRule: "required",
		},
		{
			name:     "explicit null counts as missing",
			raw:      Args{"name": nil},
			wantRule: "required",
		},
		{
			name: "present",
			raw:  Args{"name": "clip"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, verr := validate(op, tt.raw)
			if tt.wantRule != "" {
				require.NotNil(t, verr)
				assert.Equal(t, "name", verr.Param)
				assert.Equal(t, tt.wantRule, verr.Rule)
				return
			}
			require.Nil(t, verr)
			assert.Equal(t, "Blue", args["color"], "default filled in")
		})
	}
}

func TestValidateDefaultsDoNotMutateCallerArgs(t *testing.T) {
	op := &Operation{
		Name: "test",
		Args: []ArgSpec{{Name: "color", Type: "string", Default: "Blue"}},
	}
	raw := Args{}
	args, verr := validate(op, raw)
	require.Nil(t, verr)
	assert.Equal(t, "Blue", args["color"])
	assert.NotContains(t, raw, "color", "input args stay untouched")
}

func TestValidateTypeChecks(t *testing.T) {
	tests := []struct {
		name  string
		spec  ArgSpec
		value interface{}
		ok    bool
	}{
		{"string ok", ArgSpec{Name: "v", Type: "string"}, "x", true},
		{"string wrong", ArgSpec{Name: "v", Type: "string"}, 7, false},
		{"number from float", ArgSpec{Name: "v", Type: "number"}, 1.5, true},
		{"number from int", ArgSpec{Name: "v", Type: "number"}, 3, true},
		{"number wrong", ArgSpec{Name: "v", Type: "number"}, "3", false},
		{"integer from whole float", ArgSpec{Name: "v", Type: "integer"}, float64(4), true},
		{"integer rejects fraction", ArgSpec{Name: "v", Type: "integer"}, 4.5, false},
		{"boolean ok", ArgSpec{Name: "v", Type: "boolean"}, true, true},
		{"boolean wrong", ArgSpec{Name: "v", Type: "boolean"}, "true", false},
		{"array from json", ArgSpec{Name: "v", Type: "array"}, []interface{}{"a"}, true},
		{"array from strings", ArgSpec{Name: "v", Type: "array"}, []string{"a"}, true},
		{"array wrong", ArgSpec{Name: "v", Type: "array"}, "a", false},
		{"object ok", ArgSpec{Name: "v", Type: "object"}, map[string]interface{}{}, true},
		{"object wrong", ArgSpec{Name: "v", Type: "object"}, []interface{}{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := &Operation{Name: "test", Args: []ArgSpec{tt.spec}}
			_, verr := validate(op, Args{"v": tt.value})
			if tt.ok {
				assert.Nil(t, verr)
			} else {
				require.NotNil(t, verr)
				assert.Equal(t, "type", verr.Rule)
				assert.Equal(t, tt.value, verr.Value)
			}
		})
	}
}

func TestValidateNumericBounds(t *testing.T) {
	op := &Operation{
		Name: "test",
		Args: []ArgSpec{{
			Name: "track", Type: "integer",
			Min: FloatPtr(1), Max: FloatPtr(8),
		}},
	}

	tests := []struct {
		name     string
		value    interface{}
		wantRule string
	}{
		{"below min", 0, "range"},
		{"at min", 1, ""},
		{"at max", 8, ""},
		{"above max", 9, "range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, verr := validate(op, Args{"track": tt.value})
			if tt.wantRule == "" {
				assert.Nil(t, verr)
			} else {
				require.NotNil(t, verr)
				assert.Equal(t, tt.wantRule, verr.Rule)
			}
		})
	}
}

func TestValidateStep(t *testing.T) {
	op := &Operation{
		Name: "test",
		Args: []ArgSpec{{
			Name: "opacity", Type: "number",
			Min: FloatPtr(0), Max: FloatPtr(100), Step: FloatPtr(0.5),
		}},
	}

	_, verr := validate(op, Args{"opacity": 42.5})
	assert.Nil(t, verr)

	_, verr = validate(op, Args{"opacity": 42.3})
	require.NotNil(t, verr)
	assert.Equal(t, "step", verr.Rule)
}

func TestValidateEnumCanonicalizes(t *testing.T) {
	op := &Operation{
		Name: "test",
		Args: []ArgSpec{{
			Name: "color", Type: "string",
			Enum: []string{"Blue", "Cyan", "Green"},
		}},
	}

	args, verr := validate(op, Args{"color": "cyan"})
	require.Nil(t, verr)
	assert.Equal(t, "Cyan", args["color"], "canonical casing written back")

	_, verr = validate(op, Args{"color": "magenta"})
	require.NotNil(t, verr)
	assert.Equal(t, "enum", verr.Rule)
	assert.Equal(t, "magenta", verr.Value)
	assert.Contains(t, verr.Message, "Blue, Cyan, Green")
}

func TestValidateNonEmpty(t *testing.T) {
	op := &Operation{
		Name: "test",
		Args: []ArgSpec{{Name: "name", Type: "string", Required: true, NonEmpty: true}},
	}

	_, verr := validate(op, Args{"name": "   "})
	require.NotNil(t, verr)
	assert.Equal(t, "non_empty", verr.Rule)
}

func TestValidatePathMustExist(t *testing.T) {
	existing := filepath.Join(t.TempDir(), "clip.mov")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0o644))

	op := &Operation{
		Name: "test",
		Args: []ArgSpec{{Name: "file_path", Type: "string", PathMustExist: true}},
	}

	_, verr := validate(op, Args{"file_path": existing})
	assert.Nil(t, verr)

	_, verr = validate(op, Args{"file_path": filepath.Join(t.TempDir(), "missing.mov")})
	require.NotNil(t, verr)
	assert.Equal(t, "path_exists", verr.Rule)
}

func TestValidateDirWritable(t *testing.T) {
	op := &Operation{
		Name: "test",
		Args: []ArgSpec{{Name: "target_dir", Type: "string", DirWritable: true}},
	}

	_, verr := validate(op, Args{"target_dir": filepath.Join(t.TempDir(), "out.mp4")})
	assert.Nil(t, verr)

	_, verr = validate(op, Args{"target_dir": "/nonexistent-root-dir/out.mp4"})
	require.NotNil(t, verr)
	assert.Equal(t, "dir_writable", verr.Rule)
}

func TestValidateCrossFieldRules(t *testing.T) {
	op := &Operation{
		Name: "test",
		Args: []ArgSpec{
			{Name: "use_preset", Type: "boolean"},
			{Name: "preset_name", Type: "string"},
			{Name: "frame", Type: "integer"},
			{Name: "timecode", Type: "string"},
		},
		Rules: []Rule{
			Implies("use_preset", "preset_name"),
			Conflicts("frame", "timecode"),
			RequireOneOf("frame", "timecode"),
		},
	}

	tests := []struct {
		name     string
		raw      Args
		wantRule string
	}{
		{
			name:     "implies violated",
			raw:      Args{"use_preset": true, "frame": 10},
			wantRule: "use_preset_implies_preset_name",
		},
		{
			name: "implies satisfied",
			raw:  Args{"use_preset": true, "preset_name": "H.264 Master", "frame": 10},
		},
		{
			name:     "conflict",
			raw:      Args{"frame": 10, "timecode": "01:00:00:00"},
			wantRule: "frame_conflicts_timecode",
		},
		{
			name:     "neither supplied",
			raw:      Args{},
			wantRule: "one_of_frame_timecode",
		},
		{
			name: "timecode alone",
			raw:  Args{"timecode": "01:00:00:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, verr := validate(op, tt.raw)
			if tt.wantRule == "" {
				assert.Nil(t, verr)
				return
			}
			require.NotNil(t, verr)
			assert.Equal(t, tt.wantRule, verr.Rule)
		})
	}
}

func TestValidateFirstFailureWins(t *testing.T) {
	op := &Operation{
		Name: "test",
		Args: []ArgSpec{
			{Name: "a", Type: "string", Required: true},
			{Name: "b", Type: "string", Required: true},
		},
	}

	_, verr := validate(op, Args{})
	require.NotNil(t, verr)
	assert.Equal(t, "a", verr.Param, "checks run in declaration order")
}
