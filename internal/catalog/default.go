package catalog

import "study-planner/internal/model"

// DefaultCourses is the reference dataset used until a store has been loaded.
func DefaultCourses() []model.Course {
	return []model.Course{
		{
			ID: "econophysics", Name: "Econophysics", Code: "PHYS401", TotalMarks: 50,
			Topics: []model.Topic{
				{ID: "eco-1", Name: "Introduction", CreditHours: 6},
				{ID: "eco-2", Name: "Efficient Market Hypothesis", CreditHours: 10},
				{ID: "eco-3", Name: "Random Walk", CreditHours: 16},
				{ID: "eco-4", Name: "Levy Stochastic Processes and Limit Theorems", CreditHours: 22},
				{ID: "eco-5", Name: "Scales in Financial Data", CreditHours: 6},
				{ID: "eco-6", Name: "Stationary and Time Correlation", CreditHours: 20},
			},
		},
		{
			ID: "quantum-mechanics", Name: "Quantum Mechanics", Code: "PHYS402", TotalMarks: 100,
			Topics: []model.Topic{
				{ID: "qm-1", Name: "Introduction to Wave Mechanics", CreditHours: 15},
				{ID: "qm-2", Name: "Quantum Mechanical Wave Propagation", CreditHours: 20},
				{ID: "qm-3", Name: "Operator Formalism in Quantum Mechanics", CreditHours: 20},
				{ID: "qm-4", Name: "Postulates of Quantum Mechanics", CreditHours: 20},
				{ID: "qm-5", Name: "One Dimensional Quantum Mechanical Problems", CreditHours: 30},
				{ID: "qm-6", Name: "Harmonic Oscillator and Applications", CreditHours: 20},
				{ID: "qm-7", Name: "Quantum Mechanical Problems and Solutions", CreditHours: 20},
				{ID: "qm-8", Name: "Central Potential Problems", CreditHours: 15},
			},
		},
		{
			ID: "nuclear-physics", Name: "Nuclear Physics", Code: "PHYS403A", TotalMarks: 50,
			Topics: []model.Topic{
				{ID: "np-1", Name: "Nuclear Forces", CreditHours: 12},
				{ID: "np-2", Name: "Nuclear Reactions", CreditHours: 10},
				{ID: "np-3", Name: "Nuclear Reactors", CreditHours: 12},
				{ID: "np-4", Name: "Weak Nuclear Force", CreditHours: 12},
				{ID: "np-5", Name: "Cosmic Rays", CreditHours: 4},
				{ID: "np-6", Name: "Elementary Particles", CreditHours: 10},
				{ID: "np-7", Name: "Particle Interaction", CreditHours: 8},
			},
		},
		{
			ID: "solid-state-physics", Name: "Solid State Physics", Code: "PHYS403B", TotalMarks: 50,
			Topics: []model.Topic{
				{ID: "ssp-1", Name: "Types and Structures of Crystals", CreditHours: 12},
				{ID: "ssp-2", Name: "Crystal Structure from Diffraction", CreditHours: 12},
				{ID: "ssp-3", Name: "Bonding in Crystals", CreditHours: 5},
				{ID: "ssp-4", Name: "Defects in Crystals", CreditHours: 6},
				{ID: "ssp-5", Name: "Lattice Dynamics", CreditHours: 8},
				{ID: "ssp-6", Name: "Free Electron Theory", CreditHours: 7},
				{ID: "ssp-7", Name: "Band Structure of Crystals", CreditHours: 12},
				{ID: "ssp-8", Name: "Semiconductors", CreditHours: 4},
				{ID: "ssp-9", Name: "Superconductivity", CreditHours: 7},
				{ID: "ssp-10", Name: "Dielectric Properties", CreditHours: 4},
				{ID: "ssp-11", Name: "Magnetism", CreditHours: 7},
			},
		},
		{
			ID: "project-work", Name: "Project Work", Code: "PHYS404", TotalMarks: 100,
			Topics: []model.Topic{
				{ID: "proj-1", Name: "Prediction of TEC using Deep Neural Network", CreditHours: 160},
			},
		},
		{
			ID: "computational-course", Name: "Computational Course", Code: "PHYS405", TotalMarks: 50,
			Topics: []model.Topic{
				{ID: "comp-1", Name: "Introduction to Computer", CreditHours: 10},
				{ID: "comp-2", Name: "Operating System", CreditHours: 5},
				{ID: "comp-3", Name: "Data Communication and Computer Networks", CreditHours: 5},
				{ID: "comp-4", Name: "The Internet", CreditHours: 5},
				{ID: "comp-5", Name: "Data Representation", CreditHours: 9},
				{ID: "comp-6", Name: "Database Management System", CreditHours: 6},
				{ID: "comp-7", Name: "Multimedia", CreditHours: 4},
				{ID: "comp-8", Name: "Computer Security", CreditHours: 4},
				{ID: "comp-9", Name: "Geographical Information System and Remote Sensing", CreditHours: 8},
				{ID: "comp-10", Name: "Laboratory Work", CreditHours: 20},
			},
		},
	}
}
