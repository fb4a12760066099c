package emas

import (
	"k8s.io/apimachinery/pkg/util/validation/field"

	configv1alpha1 "github.com/intob/moea/apis/config/v1alpha1"
)

// Params is the immutable parameter set of a run. A World copies it on
// creation and shares the copy with every Environment.
type Params struct {
	WorldSize             int
	PopulationSize        int
	InitEnergy            float64
	FightTransfer         float64
	TravelThreshold       float64
	TravelCost            float64
	ReproductionThreshold float64
	DeathThreshold        float64
	MutationProbability   float64
	MutationScale         float64

	EliteThreshold     int
	EliteIslands       int
	EliteTravelCost    float64
	EliteBidirectional bool
	ProximityEpsilon   float64

	MigrationFirstProbability float64
	EncounterAttempts         int
	ParentSubsidy             float64
}

// NewParams defaults, validates and converts args. args is not modified.
func NewParams(args *configv1alpha1.EMASArgs) (*Params, error) {
	args = args.DeepCopy()
	configv1alpha1.SetDefaults_EMASArgs(args)
	if err := configv1alpha1.ValidateEMASArgs(field.NewPath("emas"), args); err != nil {
		return nil, err
	}
	return &Params{
		WorldSize:                 int(*args.WorldSize),
		PopulationSize:            int(*args.PopulationSize),
		InitEnergy:                *args.InitEnergy,
		FightTransfer:             *args.FightTransfer,
		TravelThreshold:           *args.TravelThreshold,
		TravelCost:                *args.TravelCost,
		ReproductionThreshold:     *args.ReproductionThreshold,
		DeathThreshold:            *args.DeathThreshold,
		MutationProbability:       *args.MutationProbability,
		MutationScale:             *args.MutationScale,
		EliteThreshold:            int(*args.EliteThreshold),
		EliteIslands:              int(*args.EliteIslands),
		EliteTravelCost:           *args.EliteTravelCost,
		EliteBidirectional:        *args.EliteBidirectional,
		ProximityEpsilon:          *args.ProximityEpsilon,
		MigrationFirstProbability: *args.MigrationFirstProbability,
		EncounterAttempts:         int(*args.EncounterAttempts),
		ParentSubsidy:             *args.ParentSubsidy,
	}, nil
}

// DefaultParams returns the parameters of the default parameter set.
func DefaultParams() *Params {
	p, err := NewParams(&configv1alpha1.EMASArgs{})
	if err != nil {
		panic(err)
	}
	return p
}
