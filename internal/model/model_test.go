package model

import (
	"encoding/json"
	"testing"
)

type patchProbe struct {
	Location Field[string] `json:"location,omitzero"`
	Demand   Field[int32]  `json:"demand,omitzero"`
}

func TestFieldDistinguishesAbsentNullAndValue(t *testing.T) {
	var probe patchProbe
	if err := json.Unmarshal([]byte(`{"location":null,"demand":0}`), &probe); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !probe.Location.Present || !probe.Location.Null {
		t.Fatalf("expected explicit null location, got %+v", probe.Location)
	}
	if !probe.Demand.Present || probe.Demand.Null || probe.Demand.Value != 0 {
		t.Fatalf("expected explicit zero demand, got %+v", probe.Demand)
	}

	probe = patchProbe{}
	if err := json.Unmarshal([]byte(`{}`), &probe); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if probe.Location.Present || probe.Demand.Present {
		t.Fatalf("expected absent fields, got %+v", probe)
	}
}

func TestFieldMarshalOmitsAbsent(t *testing.T) {
	data, err := json.Marshal(patchProbe{Location: Null[string]()})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"location":null}` {
		t.Fatalf("unexpected payload %s", data)
	}
}

func TestStatusValid(t *testing.T) {
	for _, status := range []Status{StatusGreen, StatusOrange, StatusRed} {
		if !status.Valid() {
			t.Fatalf("expected %s to be valid", status)
		}
	}
	if Status("blue").Valid() {
		t.Fatalf("expected blue to be invalid")
	}
}

func TestTeacherDisplayName(t *testing.T) {
	substitute := "  "
	teacher := Teacher{Name: "Miren", SubstituteName: &substitute}
	if teacher.DisplayName() != "Miren" {
		t.Fatalf("blank substitute should fall back to the name")
	}
	substitute = "Ane"
	if teacher.DisplayName() != "Ane" {
		t.Fatalf("expected substitute name, got %s", teacher.DisplayName())
	}
}
