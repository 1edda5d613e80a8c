/*
 * Copyright 2022 Medicines Discovery Catapult
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package domain

var domainKeywords = map[Domain][]string{
	Dengue: {
		"dengue", "ඩෙංගු", "டெங்கு", "platelet", "aedes", "mosquito",
		"hemorrhagic", "fever", "DF", "DHF", "DSS",
	},
	Covid: {
		"covid", "corona", "coronavirus", "sars-cov", "කොවිඩ්",
		"quarantine", "isolation", "pcr", "antigen", "rar test",
		"booster", "pandemic", "lockdown",
	},
	Vaccination: {
		"vaccine", "vaccination", "immunization", "immunize",
		"එන්නත්", "தடுப்பூசி", "jab", "dose", "booster",
		"mmr", "bcg", "polio", "tetanus", "hepatitis",
	},
	MentalHealth: {
		"mental", "psychiatric", "psychology", "depression",
		"anxiety", "stress", "counseling", "therapy", "මානසික",
		"suicide", "bipolar", "schizophrenia",
	},
	MaternalHealth: {
		"maternal", "maternity", "pregnancy", "pregnant", "antenatal",
		"postnatal", "delivery", "childbirth", "මාතෘ", "obstetric",
		"gynecology", "midwife",
	},
	ChildHealth: {
		"child", "children", "pediatric", "paediatric", "baby",
		"infant", "newborn", "toddler", "ළමා", "குழந்தை",
	},
	OPD: {
		"opd", "outpatient", "out patient", "clinic", "consultation",
		"doctor", "appointment", "checkup", "check-up",
	},
	Emergency: {
		"emergency", "accident", "trauma", "ambulance", "icu",
		"critical", "urgent", "1990", "911", "casualty",
	},
	Pharmacy: {
		"pharmacy", "pharmaceutical", "medicine", "medication",
		"drug", "prescription", "beheth", "மருந்து",
	},
	Laboratory: {
		"laboratory", "lab", "test", "blood test", "urine",
		"x-ray", "scan", "mri", "ct scan", "ultrasound",
	},
	Dental: {
		"dental", "dentist", "tooth", "teeth", "oral",
		"දන්ත", "பல்",
	},
	Eye: {
		"eye", "ophthalmology", "optometry", "vision", "optical",
		"ඇස්", "கண்",
	},
}

var descriptions = map[Domain]string{
	Dengue:         "Dengue fever and related mosquito-borne diseases",
	Covid:          "COVID-19 and coronavirus-related information",
	Vaccination:    "Vaccines and immunization programs",
	MentalHealth:   "Mental health and psychiatric services",
	MaternalHealth: "Maternal and reproductive health",
	ChildHealth:    "Pediatric and child health services",
	OPD:            "Outpatient department and general consultations",
	Emergency:      "Emergency and trauma services",
	Pharmacy:       "Pharmacy and medication information",
	Laboratory:     "Laboratory and diagnostic services",
	Dental:         "Dental and oral health services",
	Eye:            "Eye care and ophthalmology services",
	General:        "General health information",
}
