package protocol_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func TestSchemas_ValidateSamples(t *testing.T) {
	compile := func(name string) *jsonschema.Schema {
		t.Helper()
		p := filepath.Join("..", "..", "schemas", name)
		s, err := jsonschema.Compile(p)
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		return s
	}

	validate := func(s *jsonschema.Schema, raw string) {
		t.Helper()
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			t.Fatalf("sample: %v", err)
		}
		if err := s.Validate(v); err != nil {
			t.Fatalf("validate: %v", err)
		}
	}

	helloSchema := compile("hello.schema.json")
	welcomeSchema := compile("welcome.schema.json")
	frameSchema := compile("frame.schema.json")
	eventSchema := compile("event.schema.json")
	worldSchema := compile("world.schema.json")
	errorSchema := compile("error.schema.json")

	validate(helloSchema, `{
	  "type":"HELLO",
	  "protocol_version":"1.0",
	  "client_name":"webcam1",
	  "capabilities":{"max_queue":8}
	}`)

	validate(welcomeSchema, `{
	  "type":"WELCOME",
	  "protocol_version":"1.0",
	  "session_id":"S1",
	  "world_params":{
	    "grid_size":16,
	    "palette":["#4A90D9","#E67E22"],
	    "history_cap":50,
	    "min_confidence":0.6
	  },
	  "tuning_digest":"deadbeefdeadbeef"
	}`)

	landmarks := `[0.5,0.8,0]`
	for i := 1; i < 21; i++ {
		landmarks += `,[0.5,0.8,0]`
	}
	validate(frameSchema, `{
	  "type":"FRAME",
	  "protocol_version":"1.0",
	  "time_ms":16670,
	  "hands":[{"handedness":"RIGHT","landmarks":[`+landmarks+`]}],
	  "camera":{
	    "position":[8,12,30],
	    "forward":[0,-0.3,-1],
	    "up":[0,1,0],
	    "fov_deg":60,
	    "aspect":1.7778
	  }
	}`)

	validate(eventSchema, `{"type":"EVENT","protocol_version":"1.0","event":"mode","mode":"DELETE"}`)
	validate(eventSchema, `{"type":"EVENT","protocol_version":"1.0","event":"cursor","cursor":[3,0,5],"color_index":0}`)
	validate(eventSchema, `{"type":"EVENT","protocol_version":"1.0","event":"orbit","orbit":[0.02,-0.01]}`)

	validate(worldSchema, `{
	  "type":"WORLD",
	  "protocol_version":"1.0",
	  "grid_size":16,
	  "voxels":[{"x":3,"y":0,"z":5,"colorIndex":0}],
	  "digest":"0011223344556677"
	}`)

	validate(errorSchema, `{"type":"ERROR","protocol_version":"1.0","code":"E_BAD_FRAME","message":"hand 0: 20 landmarks"}`)
}

func TestSchemas_RejectShortHand(t *testing.T) {
	p := filepath.Join("..", "..", "schemas", "frame.schema.json")
	s, err := jsonschema.Compile(p)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	var v any
	if err := json.Unmarshal([]byte(`{
	  "type":"FRAME",
	  "protocol_version":"1.0",
	  "time_ms":0,
	  "hands":[{"landmarks":[[0.5,0.8,0]]}],
	  "camera":{"position":[0,0,0],"forward":[0,0,-1],"up":[0,1,0]}
	}`), &v); err != nil {
		t.Fatalf("sample: %v", err)
	}
	if err := s.Validate(v); err == nil {
		t.Fatalf("expected a 1-landmark hand to fail validation")
	}
}
