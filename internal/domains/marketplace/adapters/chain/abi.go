package chain

// EcommerceABI covers the marketplace contract surface the services call.
const EcommerceABI = `[
  {"type":"function","name":"owner","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"cbtoken","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"companies","stateMutability":"view","inputs":[{"name":"","type":"string"}],"outputs":[
    {"name":"ruc","type":"string"},{"name":"name","type":"string"},{"name":"wallet","type":"address"},{"name":"isActive","type":"bool"},
    {"name":"streets","type":"string"},{"name":"phone","type":"string"},{"name":"description","type":"string"},{"name":"email","type":"string"},
    {"name":"logoUrl","type":"string"},{"name":"vipUntil","type":"uint256"}]},
  {"type":"function","name":"walletToRuc","stateMutability":"view","inputs":[{"name":"","type":"address"}],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"registerCompany","stateMutability":"nonpayable","inputs":[
    {"name":"_ruc","type":"string"},{"name":"_name","type":"string"},{"name":"_wallet","type":"address"},{"name":"_streets","type":"string"},
    {"name":"_phone","type":"string"},{"name":"_description","type":"string"},{"name":"_email","type":"string"},{"name":"_logoUrl","type":"string"}],"outputs":[]},
  {"type":"function","name":"nextProductId","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"products","stateMutability":"view","inputs":[{"name":"","type":"uint256"}],"outputs":[
    {"name":"id","type":"uint256"},{"name":"companyRuc","type":"string"},{"name":"name","type":"string"},{"name":"description","type":"string"},
    {"name":"price","type":"uint256"},{"name":"stock","type":"uint256"},{"name":"iva","type":"uint8"},{"name":"isActive","type":"bool"}]},
  {"type":"function","name":"getProductPhotos","stateMutability":"view","inputs":[{"name":"_id","type":"uint256"}],"outputs":[{"name":"","type":"string[4]"}]},
  {"type":"function","name":"addProduct","stateMutability":"nonpayable","inputs":[
    {"name":"_companyRuc","type":"string"},{"name":"_name","type":"string"},{"name":"_photos","type":"string[4]"},
    {"name":"_price","type":"uint256"},{"name":"_stock","type":"uint256"},{"name":"_iva","type":"uint8"}],"outputs":[]},
  {"type":"function","name":"updateProduct","stateMutability":"nonpayable","inputs":[
    {"name":"_id","type":"uint256"},{"name":"_name","type":"string"},{"name":"_photos","type":"string[4]"},
    {"name":"_price","type":"uint256"},{"name":"_iva","type":"uint8"},{"name":"_isActive","type":"bool"}],"outputs":[]},
  {"type":"function","name":"buyStock","stateMutability":"nonpayable","inputs":[{"name":"_productId","type":"uint256"},{"name":"_amount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"clients","stateMutability":"view","inputs":[{"name":"","type":"address"}],"outputs":[
    {"name":"name","type":"string"},{"name":"idNumber","type":"string"},{"name":"email","type":"string"},{"name":"phone","type":"string"},{"name":"streets","type":"string"}]},
  {"type":"function","name":"registerClient","stateMutability":"nonpayable","inputs":[
    {"name":"_name","type":"string"},{"name":"_idNumber","type":"string"},{"name":"_email","type":"string"},{"name":"_phone","type":"string"},{"name":"_streets","type":"string"}],"outputs":[]},
  {"type":"function","name":"addToCart","stateMutability":"nonpayable","inputs":[{"name":"_productId","type":"uint256"},{"name":"_quantity","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"checkout","stateMutability":"nonpayable","inputs":[],"outputs":[]},
  {"type":"function","name":"payVipSubscription","stateMutability":"nonpayable","inputs":[{"name":"_ruc","type":"string"}],"outputs":[]},
  {"type":"function","name":"getInvoice","stateMutability":"view","inputs":[{"name":"_key","type":"string"}],"outputs":[
    {"name":"","type":"tuple","components":[
      {"name":"invoiceId","type":"string"},{"name":"companyRuc","type":"string"},{"name":"buyer","type":"address"},
      {"name":"subtotal0","type":"uint256"},{"name":"subtotal15","type":"uint256"},{"name":"ivaAmount","type":"uint256"},
      {"name":"total","type":"uint256"},{"name":"timestamp","type":"uint256"},
      {"name":"details","type":"tuple[]","components":[
        {"name":"productId","type":"uint256"},{"name":"name","type":"string"},{"name":"quantity","type":"uint256"},
        {"name":"unitPrice","type":"uint256"},{"name":"iva","type":"uint8"},{"name":"totalItem","type":"uint256"}]}]}]},
  {"type":"event","name":"CompanyRegistered","anonymous":false,"inputs":[
    {"name":"ruc","type":"string","indexed":false},{"name":"name","type":"string","indexed":false},{"name":"wallet","type":"address","indexed":false}]},
  {"type":"event","name":"ProductAdded","anonymous":false,"inputs":[
    {"name":"id","type":"uint256","indexed":false},{"name":"name","type":"string","indexed":false},{"name":"companyRuc","type":"string","indexed":false}]},
  {"type":"event","name":"PurchaseCompleted","anonymous":false,"inputs":[
    {"name":"buyer","type":"address","indexed":true},{"name":"companyRuc","type":"string","indexed":true},
    {"name":"invoiceId","type":"string","indexed":false},{"name":"total","type":"uint256","indexed":false}]}
]`

// CBTokenABI is the ERC-20 subset plus the owner-only mint.
const CBTokenABI = `[
  {"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
  {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]},
  {"type":"event","name":"Transfer","anonymous":false,"inputs":[
    {"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"value","type":"uint256","indexed":false}]}
]`
