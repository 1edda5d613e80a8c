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

package intent

// intentPatterns lists the English patterns of each intent followed by its Singlish and
// Tamilish variants. All of them are matched case-insensitively.
var intentPatterns = map[Intent][]string{
	AskingLocation: {
		`\b(?:where|koheda|enga|location|address|directions?)\b`,
		`\b(?:which|nearest|closest|nearby)\s+(?:hospital|clinic)\b`,
		`\b(?:how\s+to\s+(?:get|go|reach))\b`,
		// singlish
		`\b(?:koheda|kohomada\s+yanne)\b`,
		`\b(?:hospital\s+eka|clinic\s+eka)\s+koheda\b`,
		// tamilish
		`\b(?:enga\s+irukku|enga)\b`,
	},
	AskingTime: {
		`\b(?:what\s+time|when|keeyatada|eppo|hours?|schedule)\b`,
		`\b(?:open|close|opening|closing)\s*(?:time|hours?)?\b`,
		`\b(?:morning|afternoon|evening|weekday|weekend)\b`,
		`\b(?:keeyatada|keeyata)\b`,
		`\b(?:kawadada|kavadada)\b`,
		`\b(?:eppo|eppadi|evlo\s+neram)\b`,
	},
	AskingSymptoms: {
		`\b(?:symptom|signs?|indication)\b`,
		`\b(?:what\s+(?:are|is)\s+the\s+symptoms?)\b`,
		`\b(?:how\s+(?:do\s+i|to)\s+know\s+if)\b`,
		`\b(?:feel(?:ing)?|suffering|experiencing)\b`,
		`\b(?:lakshana|roga\s+lakshana)\b`,
	},
	AskingTreatment: {
		`\b(?:treatment|treat|cure|remedy|medicine)\b`,
		`\b(?:how\s+to\s+(?:treat|cure|heal))\b`,
		`\b(?:what\s+(?:medicine|medication|drug))\b`,
		`\b(?:should\s+i\s+(?:take|use|do))\b`,
	},
	AskingAppointment: {
		`\b(?:appointment|book(?:ing)?|reserve|schedule)\b`,
		`\b(?:how\s+to\s+(?:book|make|get)\s+(?:an?\s+)?appointment)\b`,
		`\b(?:register|registration|enroll)\b`,
		`\b(?:appointment\s+ganna|book\s+karanna)\b`,
	},
	AskingContact: {
		`\b(?:phone|telephone|call|contact|number|hotline)\b`,
		`\b(?:email|fax|mobile)\b`,
		`\b(?:how\s+to\s+(?:contact|call|reach))\b`,
	},
	Emergency: {
		`\b(?:emergency|urgent|immediately|ambulance)\b`,
		// 1990 is the Sri Lankan ambulance service
		`\b(?:help|911|1990)\b`,
		`\b(?:dying|critical|serious(?:ly)?|severe)\b`,
		`\b(?:accident|bleeding|unconscious|chest\s+pain)\b`,
	},
	GeneralInfo: {
		`\b(?:what\s+is|tell\s+me|information|about|explain)\b`,
		`\b(?:learn|know|understand)\b`,
	},
}

var examples = map[Intent][]string{
	AskingLocation: {
		"Where is the dengue clinic?",
		"mage amma dengue clinic eka koheda",
		"Colombo hospital enga irukku",
	},
	AskingTime: {
		"What time does the OPD open?",
		"clinic eka keeyatada",
		"hospital eppo close",
	},
	AskingSymptoms: {
		"What are the symptoms of dengue?",
		"How do I know if I have fever?",
	},
	AskingTreatment: {
		"How to treat dengue at home?",
		"What medicine should I take for fever?",
	},
	AskingAppointment: {
		"How to book an appointment?",
		"appointment ganna kohomada",
	},
	AskingContact: {
		"What is the hospital phone number?",
		"Contact number for emergency?",
	},
	Emergency: {
		"Emergency! Need ambulance now!",
		"My child is having severe fever",
	},
	GeneralInfo: {
		"Tell me about dengue prevention",
		"What is COVID-19?",
	},
}
