package config

import (
	"reflect"
	"testing"
)

func TestLabels(t *testing.T) {
	tests := []struct {
		name   string
		labels string
		want   []string
	}{
		{
			name:   "default labels",
			labels: "1st degree burn,2nd degree burn,3rd degree burn",
			want:   []string{"1st degree burn", "2nd degree burn", "3rd degree burn"},
		},
		{
			name:   "whitespace trimmed",
			labels: " a , b ,c",
			want:   []string{"a", "b", "c"},
		},
		{
			name:   "empty entries skipped",
			labels: "a,,b,",
			want:   []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Options{ClassLabels: tt.labels}
			if got := o.Labels(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Labels() = %v; want %v", got, tt.want)
			}
		})
	}
}
