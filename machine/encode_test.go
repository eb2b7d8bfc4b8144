package machine_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/wfpad/builder"
	"github.com/katalvlaran/wfpad/dist"
	"github.com/katalvlaran/wfpad/machine"
	"github.com/katalvlaran/wfpad/trace"
)

type EncodeSuite struct {
	suite.Suite
	m *machine.Machine
}

func (s *EncodeSuite) SetupTest() {
	d := machine.NewDraft("relay", machine.Limits{AllowedPaddingPackets: 100, MaxPaddingFrac: 0.5})
	d.AddState("start", machine.StateSpec{})
	d.AddState("block", machine.StateSpec{Action: dist.Infinite(), ActionIsBlock: true, Bypass: true, Replace: true})
	d.AddState("send", machine.StateSpec{
		Action:                  dist.Constant(512),
		Limit:                   dist.Constant(100),
		Timeout:                 dist.Constant(3610),
		LimitIncludesNonpadding: true,
	})
	d.On("start", machine.NonPaddingSent, "block", 1)
	d.On("block", machine.BlockingBegin, "send", 1)
	d.On("send", machine.PaddingSent, "send", 1)
	d.On("send", machine.NonPaddingSent, "send", 0.25)
	d.On("send", machine.NonPaddingSent, machine.Nop, 0.75)
	d.On("send", machine.BlockingEnd, machine.Cancel, 1)
	d.On("send", machine.LimitReached, machine.End, 1)
	d.Provenance = d.Provenance.Add("rate", 277)

	m, err := machine.Assemble(d)
	s.Require().NoError(err)
	s.m = m
}

func (s *EncodeSuite) TestRoundTrip() {
	enc, err := machine.Encode(s.m)
	s.Require().NoError(err)
	s.True(strings.HasPrefix(enc, machine.EncodingVersion))

	back, err := machine.Decode(enc)
	s.Require().NoError(err)

	diff := cmp.Diff(s.m, back,
		cmpopts.IgnoreFields(machine.Machine{}, "Name", "Provenance"),
		cmpopts.IgnoreFields(machine.State{}, "Label"),
		cmpopts.EquateApprox(0, 1e-12),
	)
	s.Empty(diff)
	s.Equal("2", back.States[2].Label)
}

func (s *EncodeSuite) TestDeterministic() {
	a, err := machine.Encode(s.m)
	s.Require().NoError(err)
	b, err := machine.Encode(s.m)
	s.Require().NoError(err)
	s.Equal(a, b)
	s.Equal(s.m.ID(), s.m.ID())

	// Name and provenance are not part of identity.
	clone := *s.m
	clone.Name = "other"
	s.Equal(s.m.ID(), clone.ID())
}

func (s *EncodeSuite) TestMalformed() {
	for _, in := range []string{"", "01abc", "02!!!", "02" + "AAAA"} {
		_, err := machine.Decode(in)
		s.ErrorIs(err, machine.ErrMalformedEncoding, in)
	}

	enc, err := machine.Encode(s.m)
	s.Require().NoError(err)
	_, err = machine.Decode(enc[:len(enc)-8])
	s.ErrorIs(err, machine.ErrMalformedEncoding)
}

func (s *EncodeSuite) TestDescribe() {
	def := &machine.Defense{Family: "regulator", Name: "test", Machines: []*machine.Machine{s.m}}

	var compact bytes.Buffer
	s.Require().NoError(machine.Describe(&compact, def, machine.FormatCompact))
	s.True(strings.HasPrefix(compact.String(), "relay 02"))

	var y bytes.Buffer
	s.Require().NoError(machine.Describe(&y, def, machine.FormatYAML))
	var ydoc map[string]any
	s.Require().NoError(yaml.Unmarshal(y.Bytes(), &ydoc))
	s.Equal("regulator", ydoc["family"])
	s.Contains(y.String(), "<end>")
	s.Contains(y.String(), "event: BlockingBegin")

	var j bytes.Buffer
	s.Require().NoError(machine.Describe(&j, def, machine.FormatJSON))
	var jdoc map[string]any
	s.Require().NoError(json.Unmarshal(j.Bytes(), &jdoc))
	s.Contains(j.String(), `"+Inf"`)
	s.Contains(j.String(), s.m.ID().String())

	s.ErrorIs(machine.Describe(&j, def, machine.Format("xml")), machine.ErrUnknownFormat)
}

func TestEncode_RoundTripsEveryFamily(t *testing.T) {
	t.Parallel()

	front := builder.FrontParams{Window: 14, Budget: 1200, States: 3}
	pipelined := builder.PipelinedFrontParams{FrontParams: front, Pipelines: 3}
	bursts, err := trace.Parse(strings.NewReader("3\n5\n0\n2\n"))
	require.NoError(t, err)

	cases := []struct {
		name string
		cons builder.Constructor
		opts []builder.BuilderOption
	}{
		{"front", builder.Front(front), nil},
		{"front fixed window", builder.Front(front), []builder.BuilderOption{builder.WithFixedWindow()}},
		{"pipelined front", builder.PipelinedFront(pipelined), nil},
		{"pipelined front composed", builder.PipelinedFront(pipelined), []builder.BuilderOption{builder.WithComposedPipelines()}},
		{"regulator", builder.Regulator(builder.RegulatorParams{
			InitialRate: 277, Decay: 0.94, Threshold: 3.55, UploadRatio: 3.95, CellsPerState: 100,
		}), nil},
		{"surakav", builder.Surakav(bursts), nil},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			def, err := builder.Build(tc.cons, append([]builder.BuilderOption{builder.WithSeed(7)}, tc.opts...)...)
			require.NoError(t, err)
			require.NotEmpty(t, def.Machines)

			for _, m := range def.Machines {
				enc, err := machine.Encode(m)
				require.NoError(t, err)
				back, err := machine.Decode(enc)
				require.NoError(t, err)

				diff := cmp.Diff(m, back,
					cmpopts.IgnoreFields(machine.Machine{}, "Name", "Provenance"),
					cmpopts.IgnoreFields(machine.State{}, "Label"),
					cmpopts.EquateApprox(0, 1e-12),
				)
				require.Empty(t, diff, "%s/%s", tc.name, m.Name)
				require.Equal(t, m.ID(), back.ID())
			}
		})
	}
}

func TestDescribe_StateBudgets(t *testing.T) {
	t.Parallel()

	m, err := machine.Assemble(chainDraft())
	require.NoError(t, err)

	var y bytes.Buffer
	require.NoError(t, machine.Describe(&y, &machine.Defense{Family: "front", Machines: []*machine.Machine{m}}, machine.FormatYAML))
	var doc struct {
		Machines []struct {
			States []struct {
				Label  string  `yaml:"label"`
				Budget *uint64 `yaml:"budget"`
			} `yaml:"states"`
		} `yaml:"machines"`
	}
	require.NoError(t, yaml.Unmarshal(y.Bytes(), &doc))
	require.Len(t, doc.Machines, 1)
	states := doc.Machines[0].States
	require.Len(t, states, 3)
	require.Nil(t, states[0].Budget)
	require.NotNil(t, states[1].Budget)
	require.Equal(t, uint64(10), *states[1].Budget)
}

func TestEncodeSuite(t *testing.T) {
	suite.Run(t, new(EncodeSuite))
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]machine.Format{
		"":         machine.FormatCompact,
		"maybenot": machine.FormatCompact,
		"YAML":     machine.FormatYAML,
		" json ":   machine.FormatJSON,
	} {
		got, err := machine.ParseFormat(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := machine.ParseFormat("toml")
	require.ErrorIs(t, err, machine.ErrUnknownFormat)
}

func TestEvent_Text(t *testing.T) {
	t.Parallel()

	require.Len(t, machine.Events(), 7)
	var e machine.Event
	require.NoError(t, e.UnmarshalText([]byte("limitreached")))
	require.Equal(t, machine.LimitReached, e)
	require.Error(t, e.UnmarshalText([]byte("TimerEnd")))
	require.Equal(t, "Event(42)", machine.Event(42).String())
}
