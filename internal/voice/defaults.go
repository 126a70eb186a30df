package voice

var defaultVoices = []Voice{
	{Key: "june", DisplayName: "June", Gender: Female, PrimaryProviderID: "21m00Tcm4TlvDq8ikWAM", AlternateProviderID: "en-US-JennyNeural"},
	{Key: "april", DisplayName: "April", Gender: Female, PrimaryProviderID: "AZnzlk1XvdvUeBnXmlld", AlternateProviderID: "en-US-EmmaNeural"},
	{Key: "sally", DisplayName: "Sally", Gender: Female, PrimaryProviderID: "EXAVITQu4vr4xnSDxMaL", AlternateProviderID: "en-US-AriaNeural"},
	{Key: "fred", DisplayName: "Fred", Gender: Male, PrimaryProviderID: "TxGEqnHWrfWFTfGW9XjX", AlternateProviderID: "en-US-GuyNeural"},
	{Key: "bill", DisplayName: "Bill", Gender: Male, PrimaryProviderID: "flq6f7yk4E4fJM5XTYuZ", AlternateProviderID: "en-US-EricNeural"},
	{Key: "charlie", DisplayName: "Charlie", Gender: Male, PrimaryProviderID: "IKne3meq5aSn9XLyUdCD", AlternateProviderID: "en-US-TonyNeural"},
	{Key: "dora", DisplayName: "Dora", Gender: Female, PrimaryProviderID: "pNInz6obpgDQGcFmaJgB", AlternateProviderID: "en-US-AnaNeural"},
	{Key: "marcus", DisplayName: "Marcus", Gender: Male, PrimaryProviderID: "wVAW6Ij4fQ3QmWYc4JyO", AlternateProviderID: "en-US-BrianNeural"},
	{Key: "bella", DisplayName: "Bella", Gender: Female, PrimaryProviderID: "XB0fDKeXKc1Xb2dQw7Jc", AlternateProviderID: "en-US-MichelleNeural"},
}
