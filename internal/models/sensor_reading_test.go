package models

import "testing"

func TestSensorReading_Validate(t *testing.T) {
	cases := []struct {
		name    string
		r       SensorReading
		wantErr bool
	}{
		{"zero reading", SensorReading{}, false},
		{"typical roast", SensorReading{BeanTempC: 196, ChamberTempC: 240, FanSpeed: 30, HeatLevel: 80}, false},
		{"bounds inclusive", SensorReading{BeanTempC: MaxTempC, ChamberTempC: MinTempC, FanSpeed: 100, HeatLevel: 0}, false},
		{"bean too hot", SensorReading{BeanTempC: 300.5}, true},
		{"chamber too cold", SensorReading{ChamberTempC: -51}, true},
		{"fan over 100", SensorReading{FanSpeed: 110}, true},
		{"negative heat", SensorReading{HeatLevel: -10}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.r.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() err=%v, wantErr=%v", err, tc.wantErr)
			}
		})
	}
}
