// Package domain models the New Jersey county datasets served by the
// statistics API and the transforms that normalize them.
//
// # Data Sources
//
// Every relation is rebuilt from a fixed set of public files on each seed:
//
//	school.geojson                    NJDOE school locations (FeatureCollection)
//	school_test.csv                   NJDOE SAT/ACT averages, one row per school/test/subject
//	NJ_Household_Income.csv           median household income per county
//	Hospital_General_Information.csv  CMS hospital general information, all states
//	SATmapMATH.csv, SATmapRW.csv      College Board score to percentile tables
//
// # Keys
//
// Schools are joined to their test results through the district/school code
// pair, written as "DDDD-SSS". District codes are zero-padded to four digits
// and school codes to three: district "7" and school "12" → "0007-012".
// See [DSCode].
//
// Counties are upper-cased in every relation ("Essex" → "ESSEX") so that the
// school, income and hospital relations group on the same value.
//
// # Missing Values
//
//	"N" and "*" are the NJDOE markers for not-reported and suppressed averages.
//	Both are stored as NULL.
//	"Not Available" is the CMS marker for an unrated hospital. Those rows are
//	dropped during normalization and never stored.
//
// # Statistics
//
// Income rank uses competition ranking: equal incomes share the lowest rank
// of the group and the next rank skips, so [90000, 90000, 80000] ranks
// [1, 1, 3]. Medians use the average of the two middle values for even
// counts. Percentile lookups round a mean up to the next multiple of ten
// before consulting the reference table (521 → 530).
package domain
